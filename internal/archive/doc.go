// Package archive opens downloaded dataset archives and unpacks them into a
// target directory.
//
// An archive is either Single (one downloaded file) or MultiVolume (several
// byte-split parts such as name.7z.0001, name.7z.0002, ...). Both kinds are
// presented to the decoders as one io.ReaderAt, so the volume parts are joined
// on the fly rather than concatenated on disk. The container format (zip or
// 7z) is sniffed from the leading bytes, independent of the kind.
package archive
