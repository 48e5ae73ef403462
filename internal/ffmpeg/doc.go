// Package ffmpeg builds and runs the external encoder invocations used by
// the video steps.
//
// Argument templates are fixed: one for the 720p MP4 transcode, one for the
// 720p HLS package. Failures surface as encode errors carrying the captured
// stderr, bounded so a chatty encoder cannot bloat the job record.
package ffmpeg
