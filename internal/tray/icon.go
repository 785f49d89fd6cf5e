package tray

// Embedded 1x1 PNG icons, swapped by Tray to reflect the current mode.
// These are deliberately minimal placeholders: the tray loads no icon files
// from disk, so every mode currently draws the same blank icon.

// transparentPNG is a fully transparent 1x1 PNG, used as the icon for every
// mode.
var transparentPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, // PNG signature
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
	0x00, 0x00, 0x00, 0x0a, 'I', 'D', 'A', 'T',
	0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00, 0x05, 0x00, 0x01,
	0x0d, 0x0a, 0x2d, 0xb4,
	0x00, 0x00, 0x00, 0x00, 'I', 'E', 'N', 'D',
	0xae, 0x42, 0x60, 0x82,
}

var (
	iconEnabled     = transparentPNG
	iconDisabled    = transparentPNG
	iconPassthrough = transparentPNG
)
