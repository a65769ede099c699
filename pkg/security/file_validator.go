package security

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"go-profile-backend/pkg/apperror"
)

// UploadSlot identifies which profile attachment a file is destined for.
// Each slot carries its own extension/MIME whitelist.
type UploadSlot string

const (
	SlotPhoto  UploadSlot = "profilePhoto"
	SlotResume UploadSlot = "resume"
)

// Magic byte signatures for allowed file types.
// Maps lowercase extension to possible magic byte prefixes.
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".webp": {{0x52, 0x49, 0x46, 0x46}},                                                   // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},                           // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                                                   // ZIP (PK..)
}

var slotExtensions = map[UploadSlot]map[string]bool{
	SlotPhoto: {
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	},
	SlotResume: {
		".pdf":  true,
		".doc":  true,
		".docx": true,
	},
}

// Strict MIME types per slot - application/octet-stream is never accepted
var slotMIMETypes = map[UploadSlot]map[string]bool{
	SlotPhoto: {
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	},
	SlotResume: {
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		// ZIP-based documents (DOCX detection fallback)
		"application/zip": true,
	},
}

// ValidateUpload performs layered validation of an uploaded file:
//  1. Size bound
//  2. Extension whitelist for the slot
//  3. Magic byte verification (content matches extension)
//  4. Detected MIME whitelist for the slot
//
// Violations map to PayloadTooLarge / UnsupportedMediaType.
func ValidateUpload(slot UploadSlot, filename string, data []byte, maxSize int64) *apperror.AppError {
	if int64(len(data)) > maxSize {
		return apperror.PayloadTooLarge(fmt.Sprintf("%s exceeds the maximum size of %d bytes", slot, maxSize))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return apperror.UnsupportedMedia(fmt.Sprintf("%s file has no extension", slot))
	}

	allowed, ok := slotExtensions[slot]
	if !ok || !allowed[ext] {
		return apperror.UnsupportedMedia(fmt.Sprintf("%s does not accept %s files", slot, ext))
	}

	if signatures, ok := magicBytes[ext]; ok && len(signatures) > 0 {
		matched := false
		for _, sig := range signatures {
			if len(data) >= len(sig) && bytes.HasPrefix(data, sig) {
				matched = true
				break
			}
		}
		if !matched {
			return apperror.UnsupportedMedia(fmt.Sprintf("%s content does not match its %s extension", slot, ext))
		}
	}

	detected := http.DetectContentType(data)
	// DetectContentType appends charset parameters for text-like content
	if idx := strings.Index(detected, ";"); idx != -1 {
		detected = detected[:idx]
	}
	if !slotMIMETypes[slot][detected] {
		return apperror.UnsupportedMedia(fmt.Sprintf("%s does not accept content of type %s", slot, detected))
	}

	return nil
}
