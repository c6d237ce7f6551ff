package bundle

import "time"

// Outcome labels what happened to a single asset.
type Outcome string

const (
	// OutcomeBaked means the asset was converted by the oven.
	OutcomeBaked Outcome = "baked"
	// OutcomeCached means a bake was skipped because the cache still held a
	// valid result.
	OutcomeCached Outcome = "cached"
	// OutcomeCopied means the asset was copied verbatim.
	OutcomeCopied Outcome = "copied"
	// OutcomeFailed means the bake failed; the asset is absent from the
	// bundle and its references stay unmapped.
	OutcomeFailed Outcome = "failed"
)

// AssetResult records the outcome for one input asset.
type AssetResult struct {
	Path     string  `json:"path"`
	Outcome  Outcome `json:"outcome"`
	LocalURL string  `json:"local_url,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Report summarizes a serverless bundle build.
type Report struct {
	BuildID   string        `json:"build_id"`
	InputDir  string        `json:"input_dir"`
	OutputDir string        `json:"output_dir"`
	Baked     int           `json:"baked"`
	Cached    int           `json:"cached"`
	Copied    int           `json:"copied"`
	Failed    int           `json:"failed"`
	Entities  int           `json:"entities"`
	Rewritten int           `json:"rewritten"`
	Missing   []string      `json:"missing,omitempty"`
	Assets    []AssetResult `json:"assets"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

func (r *Report) add(result AssetResult) {
	r.Assets = append(r.Assets, result)
	switch result.Outcome {
	case OutcomeBaked:
		r.Baked++
	case OutcomeCached:
		r.Cached++
	case OutcomeCopied:
		r.Copied++
	case OutcomeFailed:
		r.Failed++
	}
}
