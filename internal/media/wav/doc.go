// Package wav reads and writes 16-bit PCM RIFF/WAVE audio.
//
// Decoding accepts any channel count and downmixes to mono by averaging each
// frame with integer division. Encoding always produces mono 16-bit PCM at
// the buffer's sample rate. Anything other than uncompressed 16-bit PCM is
// rejected with an error wrapping ErrFormat.
package wav
