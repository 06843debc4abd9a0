package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/render"
	"github.com/Faultbox/tka-animator/internal/render/canvas"
)

// QRSize is the side length of /qr.png in pixels.
const QRSize = 256

// HealthStatus is the overall state reported by /health.
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusDegraded HealthStatus = "degraded"
)

// HealthResponse is the JSON body of /health.
type HealthResponse struct {
	Status  HealthStatus `json:"status"`
	Uptime  string       `json:"uptime"`
	Version string       `json:"version"`
	Details struct {
		State    string `json:"state"`
		Word     string `json:"word"`
		Beats    int    `json:"beats"`
		Clients  int    `json:"clients"`
		Sequence bool   `json:"sequence"`
	} `json:"details"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap := s.ctrl.Snapshot()
	resp := HealthResponse{
		Status:  HealthStatusHealthy,
		Uptime:  formatUptime(time.Since(s.start)),
		Version: Version,
	}
	resp.Details.State = snap.State.String()
	resp.Details.Word = snap.Word
	resp.Details.Beats = snap.TotalBeats
	resp.Details.Clients = s.Clients()
	resp.Details.Sequence = snap.TotalBeats > 0
	if !resp.Details.Sequence {
		resp.Status = HealthStatusDegraded
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("encoding health response", zap.Error(err))
	}
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// handleSnapshot renders the frame currently held by the store.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	call, err := s.drawCall()
	if err != nil {
		s.log.Warn("snapshot assets unavailable", zap.Error(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	c := canvas.New(s.opts.Preview.SnapshotSize)
	if err := c.Draw(call); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrAssetsPending) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := c.EncodePNG(w); err != nil {
		s.log.Error("encoding snapshot", zap.Error(err))
	}
}

func (s *Server) drawCall() (render.DrawCall, error) {
	blue, err := s.assets.Image(s.opts.BlueProp)
	if err != nil {
		return render.DrawCall{}, err
	}
	red, err := s.assets.Image(s.opts.RedProp)
	if err != nil {
		return render.DrawCall{}, err
	}

	call := render.FromFrame(s.store.Snapshot().Frame, blue, red, s.opts.GridVisible)
	if s.opts.GridImage != "" {
		var gridImg image.Image
		if gridImg, err = s.assets.Image(s.opts.GridImage); err != nil {
			s.log.Debug("grid image unavailable, drawing points", zap.Error(err))
		} else {
			call.GridImage = gridImg
		}
	}
	return call, nil
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	png, err := qrcode.Encode(s.PublicURL(), qrcode.Medium, QRSize)
	if err != nil {
		s.log.Error("generating QR code", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// WriteQRCode writes the QR code of the public URL to path.
func (s *Server) WriteQRCode(path string) error {
	if err := qrcode.WriteFile(s.PublicURL(), qrcode.Medium, QRSize, path); err != nil {
		return fmt.Errorf("writing QR code %s: %w", path, err)
	}
	return nil
}
