package thermocline

// FeatureRecord is the merged output of one ensemble run. Every field starts
// out nil (absent) and is only set by the strategy that owns it.
type FeatureRecord struct {
	TRMSegment   *float64 `json:"TRM_segment"`
	LEPSegment   *float64 `json:"LEP_segment"`
	UHYSegment   *float64 `json:"UHY_segment"`
	TRMHMM       *float64 `json:"TRM_HMM"`
	LEPHMM       *float64 `json:"LEP_HMM"`
	UHYHMM       *float64 `json:"UHY_HMM"`
	TRMThreshold *float64 `json:"TRM_threshold"`
	LEPThreshold *float64 `json:"LEP_threshold"`
	UHYThreshold *float64 `json:"UHY_threshold"`

	TRMGradientSegment        *float64 `json:"TRM_gradient_segment"`
	TRMNumSegment             *float64 `json:"TRM_num_segment"`
	TRMIdx                    *float64 `json:"TRM_idx"`
	DoubleTRM                 *float64 `json:"doubleTRM"`
	PositiveGradient          *float64 `json:"positiveGradient"`
	FirstSegmentGradient      *float64 `json:"firstSegmentGradient"`
	LastSegmentGradient       *float64 `json:"lastSegmentGradient"`
	LastButTwoSegmentGradient *float64 `json:"lastButTwoSegmentGradient"`
}

type field struct {
	key   string
	value **float64
}

func (r *FeatureRecord) fields() []field {
	return []field{
		{"TRM_segment", &r.TRMSegment},
		{"LEP_segment", &r.LEPSegment},
		{"UHY_segment", &r.UHYSegment},
		{"TRM_HMM", &r.TRMHMM},
		{"LEP_HMM", &r.LEPHMM},
		{"UHY_HMM", &r.UHYHMM},
		{"TRM_threshold", &r.TRMThreshold},
		{"LEP_threshold", &r.LEPThreshold},
		{"UHY_threshold", &r.UHYThreshold},
		{"TRM_gradient_segment", &r.TRMGradientSegment},
		{"TRM_num_segment", &r.TRMNumSegment},
		{"TRM_idx", &r.TRMIdx},
		{"doubleTRM", &r.DoubleTRM},
		{"positiveGradient", &r.PositiveGradient},
		{"firstSegmentGradient", &r.FirstSegmentGradient},
		{"lastSegmentGradient", &r.LastSegmentGradient},
		{"lastButTwoSegmentGradient", &r.LastButTwoSegmentGradient},
	}
}

// Keys returns every feature key in schema order.
func Keys() []string {
	var r FeatureRecord
	fs := r.fields()
	keys := make([]string, len(fs))
	for i, f := range fs {
		keys[i] = f.key
	}
	return keys
}

// Map returns the record as a key -> value view. Absent features map to nil.
func (r FeatureRecord) Map() map[string]*float64 {
	fs := r.fields()
	out := make(map[string]*float64, len(fs))
	for _, f := range fs {
		out[f.key] = *f.value
	}
	return out
}

// Get returns a feature by key.
func (r FeatureRecord) Get(key string) (float64, bool) {
	for _, f := range r.fields() {
		if f.key == key {
			if *f.value == nil {
				return 0, false
			}
			return **f.value, true
		}
	}
	return 0, false
}

// Set assigns a feature by key, reporting whether the key exists.
func (r *FeatureRecord) Set(key string, v *float64) bool {
	for _, f := range r.fields() {
		if f.key == key {
			*f.value = v
			return true
		}
	}
	return false
}

// namespaces lists the keys each strategy is allowed to set.
var namespaces = map[Method][]string{
	MethodSegmentation: {
		"TRM_segment", "LEP_segment", "UHY_segment",
		"TRM_gradient_segment", "TRM_num_segment", "TRM_idx",
		"doubleTRM", "positiveGradient",
		"firstSegmentGradient", "lastSegmentGradient", "lastButTwoSegmentGradient",
	},
	MethodHMM:       {"TRM_HMM", "LEP_HMM", "UHY_HMM"},
	MethodThreshold: {"TRM_threshold", "LEP_threshold", "UHY_threshold"},
}

// merge copies the features of other that belong to strategy m into r.
func (r *FeatureRecord) merge(m Method, other FeatureRecord) {
	owned := make(map[string]bool, len(namespaces[m]))
	for _, k := range namespaces[m] {
		owned[k] = true
	}

	dst := r.fields()
	src := other.fields()
	for i := range src {
		if owned[src[i].key] && *src[i].value != nil {
			v := **src[i].value
			*dst[i].value = &v
		}
	}
}

func ptr(v float64) *float64 {
	return &v
}
