package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Request limits shared by the render, inspect and config endpoints
const (
	defaultSize = 400
	minSize     = 1
	maxSize     = 2000
	maxSamples  = 10000
)

// Server handles web requests for the path tracer
type Server struct {
	port     int
	sceneDir string // Directory of JSON scenes offered next to the built-ins
}

// NewServer creates a new web server
func NewServer(port int, sceneDir string) *Server {
	return &Server{port: port, sceneDir: sceneDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string  `json:"scene"`   // Built-in id or JSON scene name (e.g., "cornell-box")
	Width   int     `json:"width"`   // Image width; 0 keeps the scene's own
	Height  int     `json:"height"`  // Image height; 0 keeps the scene's own
	Samples int     `json:"samples"` // Samples per pixel; 0 keeps the scene's own
	Seed    *uint64 `json:"seed"`    // Sampler seed; nil keeps the scene's own
	Workers int     `json:"workers"` // Parallel workers; 0 auto-detects
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	Rays           int64   `json:"rays"`
	Surfaces       int     `json:"surfaces"`
	Emitters       int     `json:"emitters"`
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes followed by the JSON scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes := scene.ListBuiltins()
	if s.sceneDir != "" {
		found, err := scene.ListJSONScenes(s.sceneDir)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		for _, info := range found {
			// Clients refer to JSON scenes by file name, never by path
			info.ID = sceneName(info.FilePath)
			info.FilePath = ""
			scenes = append(scenes, info)
		}
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the settings a scene renders with by default
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{Scene: r.URL.Query().Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell-box"
	}

	sceneObj, err := s.createScene(req, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene": req.Scene,
		"defaults": map[string]interface{}{
			"width":   sceneObj.Camera.Width,
			"height":  sceneObj.Camera.Height,
			"samples": sceneObj.Sampler.Samples,
			"seed":    sceneObj.Sampler.Seed,
		},
		"surfaces": sceneObj.SurfaceCount(),
		"emitters": sceneObj.EmitterCount(),
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": minSize, "max": maxSize},
			"height":  map[string]int{"min": minSize, "max": maxSize},
			"samples": map[string]int{"min": 1, "max": maxSamples},
		},
	})
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell-box" // Default scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 1, 1024); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
		req.Seed = &seed
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene. Names are looked up as
// <sceneDir>/<name>.json first, then among the built-ins.
func (s *Server) createScene(req *RenderRequest, logger core.Logger) (*scene.Scene, error) {
	if s.sceneDir != "" && sceneName(req.Scene) == req.Scene {
		path := filepath.Join(s.sceneDir, req.Scene+".json")
		if _, err := os.Stat(path); err == nil {
			return loaders.LoadFile(path, loaders.Options{Logger: logger, Overrides: req.overrides()})
		}
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = defaultSize
	}
	if height == 0 {
		height = defaultSize
	}
	cfg, err := scene.Builtin(req.Scene, width, height)
	if err != nil {
		return nil, err
	}
	if req.Samples > 0 {
		cfg.Sampler.Samples = req.Samples
	}
	if req.Seed != nil {
		cfg.Sampler.Seed = *req.Seed
	}
	return scene.New(cfg, logger)
}

// overrides rewrites a JSON scene with the request's settings
func (req *RenderRequest) overrides() []loaders.Override {
	var out []loaders.Override
	if req.Width > 0 && req.Height > 0 {
		out = append(out, loaders.Override{Path: "camera.resolution", Value: []int{req.Width, req.Height}})
	}
	if req.Samples > 0 {
		out = append(out, loaders.Override{Path: "sampler.samples", Value: req.Samples})
	}
	if req.Seed != nil {
		out = append(out, loaders.Override{Path: "sampler.seed", Value: *req.Seed})
	}
	return out
}

// sceneName is the file name of a scene path without its extension
func sceneName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img *renderer.Image) (string, error) {
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
