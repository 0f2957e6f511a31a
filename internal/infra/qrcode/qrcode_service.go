package qrcode

import (
	"encoding/json"
	"fmt"
	"strings"

	"vidhub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	PlaylistID string `json:"playlist_id"`
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
}

// NewQRCodeService creates a new QR code service instance.
// baseURL is the public site prefix the encoded share link points at.
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// PlaylistShareURL returns the public share link the QR code encodes.
// Empty when no base URL is configured.
func (s *qrcodeService) PlaylistShareURL(playlistID uuid.UUID) string {
	if s.baseURL == "" {
		return ""
	}

	return fmt.Sprintf("%s/playlists/%s", s.baseURL, playlistID)
}

// GeneratePlaylistQR generates a QR code pointing at the public playlist page
func (s *qrcodeService) GeneratePlaylistQR(playlistID uuid.UUID) ([]byte, error) {
	// Create QR code data
	data := QRCodeData{
		PlaylistID: playlistID.String(),
		Type:       "playlist",
		URL:        s.PlaylistShareURL(playlistID),
	}

	// Convert to JSON
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	// Generate QR code
	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	// Generate PNG image
	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParsePlaylistQR parses QR code data and returns the playlist ID
func (s *qrcodeService) ParsePlaylistQR(qrData string) (uuid.UUID, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	// Validate type
	if data.Type != "playlist" {
		return uuid.Nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	// Parse UUID
	playlistID, err := uuid.Parse(data.PlaylistID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse playlist ID: %w", err)
	}

	return playlistID, nil
}
