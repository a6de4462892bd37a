package event

import "time"

const DiseaseAlertQueue = "disease_alert_events"

// DiseaseAlertEvent is pushed when a diagnosis comes back high or critical,
// so the notification service can warn the farmer (and nearby farms growing
// the same crop).
type DiseaseAlertEvent struct {
	UserID      string    `json:"user_id"`
	FarmID      string    `json:"farm_id,omitempty"`
	CropType    string    `json:"crop_type"`
	DiseaseName string    `json:"disease_name"`
	Severity    string    `json:"severity"`
	SpreadRisk  string    `json:"spread_risk"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	DetectedAt  time.Time `json:"detected_at"`
}
