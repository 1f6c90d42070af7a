package session

import (
	"fmt"
	"strings"
)

// Tool selects how pointer strokes modify the buffer.
type Tool int

const (
	ToolPencil Tool = iota
	ToolLine
	ToolRectangle
	ToolCircle
	ToolEraser
	ToolFill
)

var toolNames = []string{
	ToolPencil:    "pencil",
	ToolLine:      "line",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolEraser:    "eraser",
	ToolFill:      "fill",
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolPencil, ToolLine, ToolRectangle, ToolCircle, ToolEraser, ToolFill}
}

func (t Tool) valid() bool { return t >= 0 && int(t) < len(toolNames) }

func (t Tool) String() string {
	if !t.valid() {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool accepts a tool name or a short alias ("rect", "brush").
func ParseTool(s string) (Tool, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "rect":
		return ToolRectangle, nil
	case "brush", "pen":
		return ToolPencil, nil
	case "bucket":
		return ToolFill, nil
	}
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// freehand tools paint cumulatively along the pointer path.
func (t Tool) freehand() bool { return t == ToolPencil || t == ToolEraser }

// shape tools redraw a preview from the anchor on every move.
func (t Tool) shape() bool {
	return t == ToolLine || t == ToolRectangle || t == ToolCircle
}
