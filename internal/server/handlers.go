package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/ewok/internal/compose"
	"github.com/ironsheep/ewok/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_compose").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	log := s.log.With().Str("tool", params.Name).Logger()
	ctx = log.WithContext(ctx)

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.Warn().Err(err).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_compose":
		return s.handleImageCompose(ctx, args)
	case "image_wallpaper_presets":
		return s.pipeline.Presets().List(), nil
	case "image_placement_guide":
		return s.handlePlacementGuide(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (a imageLoadArgs) validate() error {
	if a.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Composition ===

type imageComposeArgs struct {
	Path       string         `json:"path"`
	Edits      compose.Config `json:"edits"`
	OutputPath string         `json:"output_path"`
}

// ComposeResult is the image_compose result. Either OutputPath or Image is set.
type ComposeResult struct {
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
	Warnings   []string              `json:"warnings,omitempty"`
}

func (s *Server) handleImageCompose(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageComposeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := s.pipeline.Render(ctx, src, a.Edits)
	if err != nil {
		return nil, err
	}

	out := &ComposeResult{Width: res.Width, Height: res.Height, Warnings: res.Warnings}
	if a.OutputPath == "" {
		if out.Image, err = imaging.EncodeBase64PNG(res.Image); err != nil {
			return nil, err
		}
		return out, nil
	}

	if err := writePNGFile(a.OutputPath, res); err != nil {
		return nil, err
	}
	out.OutputPath = a.OutputPath
	return out, nil
}

// writePNGFile encodes res next to path and renames it into place.
func writePNGFile(path string, res *compose.Result) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ewok-*.png")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := res.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// === Placement Guide ===

type placementGuideArgs struct {
	Path      string `json:"path"`
	Divisions int    `json:"divisions"`
	Color     string `json:"color"`
}

// PlacementGuideResult is the image_placement_guide result.
type PlacementGuideResult struct {
	*imaging.EncodedImage
	Guide *imaging.PlacementGuide `json:"guide"`
}

func (s *Server) handlePlacementGuide(args json.RawMessage) (interface{}, error) {
	var a placementGuideArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out, guide, err := imaging.DrawPlacementGuide(img, a.Divisions, a.Color)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodeBase64PNG(out)
	if err != nil {
		return nil, err
	}
	return &PlacementGuideResult{EncodedImage: encoded, Guide: guide}, nil
}
