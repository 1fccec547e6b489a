package tracker

import "fmt"

var motivations = []string{
	"Every smoke-free day is a win. Keep going!",
	"Your body is repairing itself right now.",
	"Cravings pass. Your progress stays.",
	"Think of the money you're keeping and what it could buy.",
	"You're stronger than any craving.",
}

// Motivation returns the encouragement line for an elapsed day count.
func Motivation(days int) string {
	if days < 0 {
		days = 0
	}
	return motivations[days%len(motivations)]
}

// ShareText formats a snapshot for sharing. The day count, amount saved and
// health percentage are taken from the snapshot unchanged.
func ShareText(s Snapshot) string {
	return fmt.Sprintf("🚭 %d days quit, saved %s, %d%% recovered\n#quitsmoking #smokefree",
		s.Duration.Days, FormatMoney(s.Metrics.MoneySaved), s.Metrics.HealthScore)
}
