package recipe

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"foodgram/domain"
)

const shoppingListTimeFormat = "02/01/2006 15:04"

// AggregateShoppingList groups raw cart rows by (ingredient name,
// measurement unit) and sums their amounts. The result is sorted by name for
// a stable report.
func AggregateShoppingList(items []domain.ShoppingListItem) []domain.ShoppingListItem {
	type groupKey struct {
		name string
		unit string
	}

	sums := make(map[groupKey]int, len(items))
	order := make([]groupKey, 0, len(items))
	for _, item := range items {
		key := groupKey{name: item.Name, unit: item.MeasurementUnit}
		if _, ok := sums[key]; !ok {
			order = append(order, key)
		}
		sums[key] += item.Amount
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].name != order[j].name {
			return order[i].name < order[j].name
		}
		return order[i].unit < order[j].unit
	})

	aggregated := make([]domain.ShoppingListItem, 0, len(order))
	for _, key := range order {
		aggregated = append(aggregated, domain.ShoppingListItem{
			Name:            key.name,
			MeasurementUnit: key.unit,
			Amount:          sums[key],
		})
	}
	return aggregated
}

// ShoppingListFilename derives the attachment name from the user identity.
func ShoppingListFilename(username string) string {
	return fmt.Sprintf("%s_shopping_list.txt", username)
}

// RenderShoppingList renders the aggregated cart as a UTF-8 plain-text
// report: a header with the owner's name and a timestamp, one line per
// aggregated ingredient, and a fixed footer. The report is kept in memory
// and streamed to the client, nothing is written to disk.
func RenderShoppingList(firstName string, items []domain.ShoppingListItem, now time.Time) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Список покупок для:\n\n%s\n\n%s\n\n", firstName, now.Format(shoppingListTimeFormat))
	for _, item := range items {
		fmt.Fprintf(&buf, "%s: %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	buf.WriteString("\nПосчитано в Foodgram.ml\n")

	return buf.Bytes()
}
