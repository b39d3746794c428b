package flow

import (
	"time"

	"github.com/fieldline/labportal/internal/kv"
)

// draftEnvelope is the persisted shape of a saved draft. Version and Flow
// guard against resuming a draft written by a different form-state schema:
// on mismatch the draft is discarded, never merged.
type draftEnvelope struct {
	Version int       `json:"version"`
	Flow    string    `json:"flow"`
	Token   string    `json:"token"`
	Step    int       `json:"step"`
	SavedAt time.Time `json:"saved_at"`
	State   State     `json:"state"`
}

// DraftStore saves and resumes in-progress flow sessions through the kv
// backing store. One draft per flow, under the key "<flowName>_draft";
// saving overwrites any previous draft for that flow.
type DraftStore struct {
	codec *kv.Codec
}

// NewDraftStore wraps a codec.
func NewDraftStore(codec *kv.Codec) *DraftStore {
	return &DraftStore{codec: codec}
}

func draftKey(flowName string) string { return flowName + "_draft" }

// Save persists the full form state (not just validated fields) together
// with the session token and step index. Failures are swallowed by the
// codec; drafts are best-effort.
func (d *DraftStore) Save(def *Definition, token string, step int, state State, savedAt time.Time) {
	d.codec.WriteJSON(draftKey(def.Name), draftEnvelope{
		Version: def.Version,
		Flow:    def.Name,
		Token:   token,
		Step:    step,
		SavedAt: savedAt,
		State:   state.Clone(),
	})
}

// Load returns the saved draft for def, if one exists and its schema
// version matches. A stale or foreign draft is deleted and reported as
// absent.
func (d *DraftStore) Load(def *Definition) (state State, token string, step int, ok bool) {
	var env draftEnvelope
	if !d.codec.ReadJSON(draftKey(def.Name), &env) {
		return nil, "", 0, false
	}
	if env.Version != def.Version || env.Flow != def.Name {
		d.codec.Delete(draftKey(def.Name))
		return nil, "", 0, false
	}
	if env.Step < 0 || env.Step >= len(def.Steps) {
		env.Step = 0
	}
	return env.State, env.Token, env.Step, true
}

// Clear removes the saved draft for def, if any.
func (d *DraftStore) Clear(def *Definition) {
	d.codec.Delete(draftKey(def.Name))
}
