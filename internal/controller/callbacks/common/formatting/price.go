package formatting

import "fmt"

// FormatRate форматирует почасовую ставку
func FormatRate(rate float64) string {
	if rate == float64(int64(rate)) {
		return fmt.Sprintf("$%.0f/h", rate)
	}
	return fmt.Sprintf("$%.2f/h", rate)
}

// FormatCost стоимость сессии
func FormatCost(rate, hours float64) string {
	return fmt.Sprintf("$%.2f", rate*hours)
}
