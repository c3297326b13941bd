package entity

// Input keys of a raw consumption record.
const (
	KeyClientID = "id"
	KeyPeriod   = "year-month"
	KeyLabel    = "target"
)

// NumFeatures is the arity of every feature vector.
const NumFeatures = 6

// FeatureNames lists the feature keys in tensor column order.
var FeatureNames = [NumFeatures]string{
	"total_consumption",
	"avg_monthly_consumption",
	"consumption_std",
	"consumption_change_rate",
	"months_since_last_invoice",
	"monthly_invoice_count",
}

// ClientID identifies the client a record belongs to.
type ClientID string

// Features is one month of client activity in FeatureNames order.
type Features [NumFeatures]float64

// RawRecord is a record as decoded from a source (CSV row, JSON object, YAML map,
// SQLite row) before its shape has been validated.
type RawRecord map[string]any

// Record is a validated client-month observation.
type Record struct {
	ClientID ClientID `json:"id"`
	Period   string   `json:"year-month"`
	Features Features `json:"features"`
	// Label is the ground-truth class (0 legitimate, 1 fraudulent), when known.
	Label *int `json:"target,omitempty"`
}
