package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GeneratePlaylistQR generates a QR code pointing at the public playlist page
	GeneratePlaylistQR(playlistID uuid.UUID) ([]byte, error)

	// ParsePlaylistQR parses QR code data and returns the playlist ID
	ParsePlaylistQR(qrData string) (uuid.UUID, error)

	// PlaylistShareURL returns the public share link the QR code encodes
	PlaylistShareURL(playlistID uuid.UUID) string
}
