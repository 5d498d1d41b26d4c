package dialog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const MaxAmount = 999_999_999

// ParseAmount разбирает пользовательский ввод суммы. Запятая
// принимается как десятичный разделитель. Сумма округляется до копеек
// (та же точность, что и у колонки в базе), должна быть строго
// положительной и не превышать MaxAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, ",", ".")

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("сумма должна быть числом")
	}
	amount = amount.Round(2)

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("сумма должна быть больше нуля")
	}
	if amount.GreaterThan(decimal.NewFromInt(MaxAmount)) {
		return decimal.Zero, fmt.Errorf("сумма не должна превышать %d", int64(MaxAmount))
	}

	return amount, nil
}
