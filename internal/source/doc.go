// Package source resolves job input references to readable local files,
// downloading remote objects to temporary copies when needed.
package source
