/*
Package id3 reads and writes ID3 metadata tags: the ID3v2.2, v2.3 and
v2.4 tag at the start of a file and the legacy 128-byte ID3v1 tag at
its end.

# Supported versions

All three ID3v2 revisions can be read and written. The in-memory
representation follows v2.4; older tags are converted on read and
converted back on write when an older target revision is requested.

The upgrade process makes the following changes to pre-2.4 tags:

  - TYER, TDAT and TIME get replaced by a single TDRC timestamp
  - v2.2 three-character frame identifiers get normalized to their
    four-character equivalents

Writing a v2.4 tag to a v2.3 or v2.2 target reverses those mappings;
frames with no representation in the target revision fail the write
rather than being dropped silently.

# Reading and writing

Tags embedded in byte streams are handled by Decoder and Encoder.
File-level helpers splice a tag in place without rewriting the audio
payload unless the tag region has to grow:

	tag, err := id3.ReadFromPath("song.mp3")
	...
	tag.SetArtist("High Contrast")
	err = tag.WriteToPath("song.mp3", id3.Version24)

Frame-level parse failures inside an otherwise intact tag do not
poison the whole read; PartialTagOk recovers the decodable remainder
and NoTagOk turns the missing-tag case into a nil tag.
*/
package id3
