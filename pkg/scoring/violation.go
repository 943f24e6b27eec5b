package scoring

// RiskTier groups violations by how strongly they indicate an attack.
type RiskTier string

const (
	LowRisk  RiskTier = "low"
	HighRisk RiskTier = "high"
)

// Violation is one flag that contributes a fixed number of points to the
// anomaly score.
type Violation struct {
	Code        string
	Points      int
	Risk        RiskTier
	Description string
}

// Violation codes.
const (
	ViolBotClient          = "VIOL_BOT_CLIENT"
	ViolHTTPResponseStatus = "VIOL_HTTP_RESPONSE_STATUS"
	ViolParameter          = "VIOL_PARAMETER"
	ViolAttackSignature    = "VIOL_ATTACK_SIGNATURE"
	ViolHTTPProtocol       = "VIOL_HTTP_PROTOCOL"
	ViolEvasion            = "VIOL_EVASION"
)

// violations is the static catalogue in display order.
var violations = []Violation{
	{Code: ViolBotClient, Points: 1, Risk: LowRisk, Description: "client identified as an automated bot"},
	{Code: ViolHTTPResponseStatus, Points: 2, Risk: LowRisk, Description: "response status code not allowed"},
	{Code: ViolHTTPProtocol, Points: 2, Risk: LowRisk, Description: "HTTP protocol compliance failure"},
	{Code: ViolParameter, Points: 3, Risk: HighRisk, Description: "illegal parameter value or meta character"},
	{Code: ViolEvasion, Points: 3, Risk: HighRisk, Description: "evasion technique detected in the request"},
	{Code: ViolAttackSignature, Points: 4, Risk: HighRisk, Description: "attack signature matched"},
}

var violationIndex = func() map[string]Violation {
	m := make(map[string]Violation, len(violations))
	for _, v := range violations {
		m[v.Code] = v
	}
	return m
}()

// Violations returns the catalogue in display order.
func Violations() []Violation {
	out := make([]Violation, len(violations))
	copy(out, violations)
	return out
}

// Lookup finds a violation by code.
func Lookup(code string) (Violation, bool) {
	v, ok := violationIndex[code]
	return v, ok
}

// ByRisk returns the violations of one tier in display order.
func ByRisk(tier RiskTier) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Risk == tier {
			out = append(out, v)
		}
	}
	return out
}
