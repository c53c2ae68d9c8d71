package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// positionSchema accepts pixels (number) or a percentage string like "50%".
func positionSchema(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        []string{"number", "string"},
		"description": desc + ": pixels, or a percentage of the canvas such as \"50%\"",
	}
}

func editsSchema() map[string]interface{} {
	textOverlay := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text":  map[string]interface{}{"type": "string"},
			"x":     positionSchema("Horizontal centre of the text"),
			"y":     positionSchema("Vertical centre of the text"),
			"size":  map[string]interface{}{"type": "number", "default": 24},
			"color": map[string]interface{}{"type": "string", "description": "#RRGGBB", "default": "#FFFFFF"},
			"text_effect": map[string]interface{}{
				"type": "string",
				"enum": []string{"none", "shadow", "outline", "glow"},
			},
			"effect_color":    map[string]interface{}{"type": "string", "default": "#000000"},
			"effect_strength": map[string]interface{}{"type": "integer", "default": 3},
		},
	}

	imageOverlay := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"filename": map[string]interface{}{"type": "string", "description": "Name of an image in the upload directory"},
			"x":        positionSchema("Left edge"),
			"y":        positionSchema("Top edge"),
			"width":    map[string]interface{}{"type": "integer"},
			"height":   map[string]interface{}{"type": "integer"},
			"opacity":  map[string]interface{}{"type": "number", "default": 100},
		},
	}

	return map[string]interface{}{
		"type":        "object",
		"description": "Edit configuration. Every section is optional; an empty object returns the source unchanged.",
		"properties": map[string]interface{}{
			"opacity":          map[string]interface{}{"type": "number", "description": "Alpha scale in percent", "default": 100},
			"saturation":       map[string]interface{}{"type": "number", "description": "Colour intensity in percent", "default": 100},
			"resize":           map[string]interface{}{"type": "number", "description": "Scale in percent", "default": 100},
			"wallpaper_mode":   map[string]interface{}{"type": "boolean"},
			"wallpaper_preset": map[string]interface{}{"type": "string", "description": "See image_wallpaper_presets"},
			"fit_mode": map[string]interface{}{
				"type": "string",
				"enum": []string{"fit", "crop", "stretch"},
			},
			"text_overlays":  map[string]interface{}{"type": "array", "items": textOverlay},
			"image_overlays": map[string]interface{}{"type": "array", "items": imageOverlay},
			"background": map[string]interface{}{
				"type":        "object",
				"description": "Layer placed beneath transparent regions: type color|gradient|pattern",
			},
			"watermark": map[string]interface{}{
				"type":        "object",
				"description": "type \"text\" with text, position (bottom-right, top-left, top-right, bottom-left, center), opacity, size, color",
			},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, alpha and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "image_compose",
			Description: "Render an edit configuration onto an image: tone adjustments, wallpaper sizing, text and image overlays, " +
				"a background beneath transparent areas and a text watermark. Writes a PNG to output_path, or returns it base64 encoded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"edits": editsSchema(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute path for the PNG result. When omitted the image is returned inline.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_wallpaper_presets",
			Description: "List the wallpaper presets accepted by image_compose, in display order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name: "image_placement_guide",
			Description: "Overlay percentage guide lines on an image to help choose overlay positions. " +
				"A line labelled p% marks where a position of \"p%\" lands.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"divisions": map[string]interface{}{
						"type":        "integer",
						"description": "Equal parts per axis (2-20). Default 4",
						"default":     4,
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Line colour as #RRGGBB or #RRGGBBAA. Default #FF000080",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
