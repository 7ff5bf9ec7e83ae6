package agent

// DeepIntelResult is the fixed schema of the deep intelligence analysis.
// Every field is always populated; when the model cannot be reached or
// returns garbage, the neutral defaults below stand in.
type DeepIntelResult struct {
	Score                int      `json:"score"`
	Confidence           float64  `json:"confidence"`
	PersonalityProfile   string   `json:"personalityProfile"`
	PainPoints           []string `json:"painPoints"`
	FinancialSignals     []string `json:"financialSignals"`
	BusinessInterest     string   `json:"businessInterest"`
	LifeEvents           []string `json:"lifeEvents"`
	EmotionalState       string   `json:"emotionalState"`
	EngagementPrediction string   `json:"engagementPrediction"`
	UpsellReadiness      string   `json:"upsellReadiness"`
	ClosingLikelihood    string   `json:"closingLikelihood"`
	TopOpportunities     []string `json:"topOpportunities"`
}

// DefaultResult is the neutral analysis used when every model tier fails.
// A middle score with low confidence keeps downstream ranking stable
// without pretending the entity was analyzed.
func DefaultResult() DeepIntelResult {
	return DeepIntelResult{
		Score:                50,
		Confidence:           0.5,
		PersonalityProfile:   "unknown",
		PainPoints:           []string{},
		FinancialSignals:     []string{},
		BusinessInterest:     "unknown",
		LifeEvents:           []string{},
		EmotionalState:       "unknown",
		EngagementPrediction: "unknown",
		UpsellReadiness:      "unknown",
		ClosingLikelihood:    "unknown",
		TopOpportunities:     []string{},
	}
}
