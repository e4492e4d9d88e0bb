package stash

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// SceneUpdateHook is the hook type the sync reacts to.
const SceneUpdateHook = "Scene.Update.Post"

// HookContext is the organizer's description of the event that fired.
type HookContext struct {
	ID   hookID `json:"id"`
	Type string `json:"type"`
	// InputFields names the fields the triggering mutation touched.
	InputFields []string `json:"inputFields"`
}

// hookID accepts the scene id as either a JSON number or a string; the
// organizer has emitted both over time.
type hookID string

func (h *hookID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*h = hookID(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*h = hookID(asNumber.String())
	return nil
}

// HookPayload is the JSON the organizer pipes to a plugin on stdin.
type HookPayload struct {
	Args struct {
		HookContext HookContext `json:"hookContext"`
	} `json:"args"`
}

// DecodeHook parses a hook payload from a reader.
func DecodeHook(r io.Reader) (HookPayload, error) {
	var payload HookPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return HookPayload{}, fmt.Errorf("stash: decode hook payload: %w", err)
	}
	return payload, nil
}

// SceneID returns the id of the scene the hook fired for.
func (h HookContext) SceneID() string {
	return strings.TrimSpace(string(h.ID))
}

// IsSceneUpdate reports whether the hook is a post-update scene hook.
func (h HookContext) IsSceneUpdate() bool {
	return h.Type == SceneUpdateHook
}

// IsURLOnlyUpdate reports whether the update touched nothing but the
// scene's URLs. The sync writes URLs back to the scene, which fires
// this same hook again; skipping URL-only updates breaks the loop.
func (h HookContext) IsURLOnlyUpdate() bool {
	if len(h.InputFields) == 0 || len(h.InputFields) > 2 {
		return false
	}
	for _, field := range h.InputFields {
		if field == "urls" {
			return true
		}
	}
	return false
}
