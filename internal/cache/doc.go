// Package cache owns the on-disk dataset layout:
//
//	<data_root>/download/<archive file named after the URL's last segment>
//	<data_root>/extract/<scene>/<extracted files>
//
// Directories are created lazily and never removed. The download area is
// exposed as a Store whose writes go through a temp file + rename, so a
// failed fetch never leaves a file that would later be mistaken for a
// finished download. Presence of a file is the only "already downloaded"
// signal; no size or checksum check backs it.
package cache
