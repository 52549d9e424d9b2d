package clients

import (
	"context"

	ws "product-engine/internal/transport/websocket"
)

// WebSocketClient publishes export lifecycle events through the hub.
type WebSocketClient struct {
	hub *ws.Hub
}

func NewWebSocketClient(hub *ws.Hub) *WebSocketClient {
	return &WebSocketClient{hub: hub}
}

func (c *WebSocketClient) NotifyExportProgress(ctx context.Context, exportID string, progress float64, stage string) error {
	if c == nil || c.hub == nil {
		return nil
	}

	data := map[string]interface{}{
		"id":       exportID,
		"progress": progress,
	}
	if stage != "" {
		data["stage"] = stage
	}

	c.hub.Broadcast(&ws.Message{
		Type: "export_progress",
		Data: data,
	})
	return nil
}

func (c *WebSocketClient) NotifyExportComplete(ctx context.Context, exportID, url, filename string) error {
	if c == nil || c.hub == nil {
		return nil
	}

	c.hub.Broadcast(&ws.Message{
		Type: "export_complete",
		Data: map[string]interface{}{
			"id":       exportID,
			"url":      url,
			"filename": filename,
		},
	})
	return nil
}

func (c *WebSocketClient) NotifyExportFailed(ctx context.Context, exportID, errMsg string) error {
	if c == nil || c.hub == nil {
		return nil
	}

	c.hub.Broadcast(&ws.Message{
		Type: "export_failed",
		Data: map[string]interface{}{
			"id":      exportID,
			"message": errMsg,
		},
	})
	return nil
}
