/*
NAME
  register.go - format descriptor registry.

DESCRIPTION
  Format is a pure-data descriptor, deliberately free of any init()-time
  side effect, per spec.md §6 ("the outer registry that maps format names
  to implementations is out of scope"). Callers that want registration
  behaviour wire Formats into their own registry; this package only
  describes what each profile needs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

// Format describes one variant of this package's container support.
type Format struct {
	Name        string
	LongName    string
	Extensions  []string
	MimeType    string
	ProfileKind ProfileKind // zero value for the header-less demux-only variant
	HeaderLess  bool
}

// Formats lists the container variants this package understands. It is
// plain data: nothing in this package consults it, and importing it has
// no side effect.
var Formats = []Format{
	{
		Name:        "mpeg",
		LongName:    "MPEG-1 Systems Program Stream",
		Extensions:  []string{".mpg", ".mpeg"},
		MimeType:    "video/mpeg",
		ProfileKind: ProfileMPEG1,
	},
	{
		Name:        "vcd",
		LongName:    "Video CD Program Stream",
		Extensions:  []string{".dat"},
		MimeType:    "video/mpeg",
		ProfileKind: ProfileVCD,
	},
	{
		Name:        "vob",
		LongName:    "DVD Video Object Program Stream",
		Extensions:  []string{".vob"},
		MimeType:    "video/mpeg",
		ProfileKind: ProfileVOB,
	},
	{
		Name:       "mpegps-raw",
		LongName:   "raw Program Stream, no pack/system headers required",
		Extensions: []string{".m2p"},
		MimeType:   "video/mpeg",
		HeaderLess: true,
	},
}
