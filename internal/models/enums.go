package models

// Severity of a diagnosed crop disease.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var Severities = []string{
	string(SeverityLow), string(SeverityMedium), string(SeverityHigh), string(SeverityCritical),
}

type SpreadRisk string

const (
	SpreadRiskLow    SpreadRisk = "low"
	SpreadRiskMedium SpreadRisk = "medium"
	SpreadRiskHigh   SpreadRisk = "high"
)

var SpreadRisks = []string{
	string(SpreadRiskLow), string(SpreadRiskMedium), string(SpreadRiskHigh),
}

type MarketTrend string

const (
	MarketTrendRising  MarketTrend = "rising"
	MarketTrendSteady  MarketTrend = "steady"
	MarketTrendFalling MarketTrend = "falling"
)

var MarketTrends = []string{
	string(MarketTrendRising), string(MarketTrendSteady), string(MarketTrendFalling),
}

// QuestionCategory is the closed taxonomy for farmer question triage.
type QuestionCategory string

const (
	CategoryCropManagement QuestionCategory = "crop_management"
	CategoryDiseasePest    QuestionCategory = "disease_pest"
	CategorySoilFertility  QuestionCategory = "soil_fertility"
	CategoryIrrigation     QuestionCategory = "irrigation"
	CategoryWeatherClimate QuestionCategory = "weather_climate"
	CategoryMarketPrice    QuestionCategory = "market_price"
	CategoryLivestock      QuestionCategory = "livestock"
	CategoryGeneral        QuestionCategory = "general"
)

var QuestionCategories = []string{
	string(CategoryCropManagement), string(CategoryDiseasePest), string(CategorySoilFertility),
	string(CategoryIrrigation), string(CategoryWeatherClimate), string(CategoryMarketPrice),
	string(CategoryLivestock), string(CategoryGeneral),
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

var Urgencies = []string{
	string(UrgencyLow), string(UrgencyMedium), string(UrgencyHigh),
}

type FarmStatus string

const (
	FarmActive   FarmStatus = "active"
	FarmArchived FarmStatus = "archived"
)

func IsValidFarmStatus(status FarmStatus) bool {
	switch status {
	case FarmActive, FarmArchived:
		return true
	default:
		return false
	}
}
