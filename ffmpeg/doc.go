// Package ffmpeg knows how to talk to the external encoding and
// probing tools: where to find them, how to ask the probe tool for a
// source's video codec, how to turn a clip request into an encoder
// argument vector, and how to run the encoder as a child process.
//
// Argument vectors are always []string handed straight to os/exec.
// Nothing in this package ever builds a shell command line.
package ffmpeg
