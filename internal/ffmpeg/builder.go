package ffmpeg

import "path/filepath"

// Fixed encode parameters shared by the MP4 and HLS templates. The scale
// filter pins output height to 720 and derives an even width from the input
// aspect ratio.
const (
	scaleFilter  = "scale=-2:720"
	videoCodec   = "libx264"
	encodePreset = "veryfast"
	crf          = "23"
	audioCodec   = "aac"
	audioBitrate = "128k"

	hlsSegmentSeconds = "4"
	// PlaylistName is the entry point of an HLS output directory.
	PlaylistName = "index.m3u8"
)

// BuildTranscode720pArgs constructs the argument slice for a single-file
// H.264/AAC 720p MP4 encode.
func BuildTranscode720pArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-i", inputPath,
		"-vf", scaleFilter,
		"-c:v", videoCodec,
		"-preset", encodePreset,
		"-crf", crf,
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
		outputPath,
	}
}

// BuildHLS720pArgs constructs the argument slice for a 720p HLS package:
// an unbounded playlist plus fixed-duration media segments in outDir.
func BuildHLS720pArgs(inputPath, outDir string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-i", inputPath,
		"-vf", scaleFilter,
		"-c:v", videoCodec,
		"-preset", encodePreset,
		"-crf", crf,
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
		"-hls_time", hlsSegmentSeconds,
		"-hls_list_size", "0",
		"-hls_segment_filename", filepath.Join(outDir, "seg_%04d.ts"),
		filepath.Join(outDir, PlaylistName),
	}
}
