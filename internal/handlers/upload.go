package handlers

import (
	"log"
	"net/http"
	"regexp"

	"github.com/AnshRaj112/studio-backend/internal/services"
)

type UploadResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	URL     string                 `json:"url,omitempty"`
	File    *services.UploadedFile `json:"file,omitempty"`
}

const (
	maxUploadBytes = 10 << 20 // 10MB
	defaultFolder  = "studio"
)

var folderPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// UploadFile stores a portfolio image, certificate or attachment in Cloudinary.
// The optional folder query parameter defaults to "studio".
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if cloudinaryService == nil {
		writeJSON(w, http.StatusServiceUnavailable, UploadResponse{Success: false, Message: "File uploads are not available"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, UploadResponse{Success: false, Message: "Failed to parse form: " + err.Error()})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, UploadResponse{Success: false, Message: "No file provided"})
		return
	}
	defer file.Close()

	if fileHeader.Size > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, UploadResponse{Success: false, Message: "File must be 10MB or smaller"})
		return
	}

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = defaultFolder
	}
	if !folderPattern.MatchString(folder) {
		writeJSON(w, http.StatusBadRequest, UploadResponse{Success: false, Message: "Invalid folder name"})
		return
	}

	uploaded, err := cloudinaryService.Upload(r.Context(), fileHeader, folder)
	if err != nil {
		log.Printf("upload file: %v", err)
		writeJSON(w, http.StatusBadGateway, UploadResponse{Success: false, Message: "Failed to upload file"})
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     uploaded.URL,
		File:    uploaded,
	})
}
