package domain

import (
	"fmt"
	"strings"
)

// Risk labels produced by the rule evaluator.
const (
	RiskPowderyMildew = "Powdery mildew (possible)"
	RiskAphids        = "Aphids (possible)"
	RiskGrayMold      = "Gray mold / Botrytis (possible)"
)

// EvaluateRules maps a weather reading to zero or more pest risk labels.
// Output order follows rule order and each rule fires at most once. When
// temperature or humidity is absent the result is empty regardless of rain.
func EvaluateRules(r Reading) []string {
	if r.Temperature == nil || r.Humidity == nil {
		return nil
	}

	temp := *r.Temperature
	hum := *r.Humidity

	var risks []string
	if hum > 80 && temp >= 20 && temp <= 28 {
		risks = append(risks, RiskPowderyMildew)
	}
	if temp > 30 && hum < 40 {
		risks = append(risks, RiskAphids)
	}
	if hum > 85 && r.RainMM > 5 {
		risks = append(risks, RiskGrayMold)
	}
	return risks
}

// AlertMessage composes the persisted alert text for a farm from its matched
// risk labels, e.g. `Farm 'Ridge Orchard' potential pests: Aphids (possible)`.
func AlertMessage(farmName string, risks []string) string {
	return fmt.Sprintf("Farm '%s' potential pests: %s", farmName, strings.Join(risks, "; "))
}
