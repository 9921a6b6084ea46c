package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// RenderResult is the payload of the final "complete" event
type RenderResult struct {
	Scene     string `json:"scene"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// renderOutcome is handed from the render goroutine to the SSE writer
type renderOutcome struct {
	result RenderResult
	err    error
}

// handleRender renders a scene and streams its log lines followed by the
// finished image as Server-Sent Events: "console", then "complete" or "error".
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 100)
	outcomeChan := make(chan renderOutcome, 1)
	go func() {
		// All logging happens on this goroutine or inside Raytrace, so the
		// console channel can be closed once the render returns
		defer close(consoleChan)
		outcomeChan <- s.render(req, NewWebLogger(consoleChan))
	}()

	ctx := r.Context()
	for {
		select {
		case msg, ok := <-consoleChan:
			if !ok {
				s.finishRender(w, <-outcomeChan)
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			if err := s.sendSSEEvent(w, "console", string(data)); err != nil {
				return
			}

		case <-ctx.Done():
			// Client disconnected; the render runs to completion unobserved
			return
		}
	}
}

// render builds and traces the requested scene
func (s *Server) render(req *RenderRequest, logger *WebLogger) renderOutcome {
	start := time.Now()
	sceneObj, err := s.createScene(req, logger)
	if err != nil {
		return renderOutcome{err: err}
	}

	img, stats := sceneObj.Raytrace(renderer.Options{Workers: req.Workers, Logger: logger})
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		return renderOutcome{err: fmt.Errorf("failed to encode image: %w", err)}
	}

	return renderOutcome{result: RenderResult{
		Scene:     req.Scene,
		Width:     sceneObj.Camera.Width,
		Height:    sceneObj.Camera.Height,
		ImageData: imageData,
		Stats: Stats{
			TotalPixels:    stats.TotalPixels,
			TotalSamples:   stats.TotalSamples,
			AverageSamples: stats.AverageSamples(),
			Rays:           stats.Rays,
			Surfaces:       sceneObj.SurfaceCount(),
			Emitters:       sceneObj.EmitterCount(),
		},
		ElapsedMs: time.Since(start).Milliseconds(),
	}}
}

func (s *Server) finishRender(w http.ResponseWriter, outcome renderOutcome) {
	if outcome.err != nil {
		s.sendSSEError(w, fmt.Sprintf("Rendering failed: %v", outcome.err))
		return
	}
	data, err := json.Marshal(outcome.result)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Failed to encode result: %v", err))
		return
	}
	s.sendSSEEvent(w, "complete", string(data))
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent writes one event and flushes it to the client
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming not supported")
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
