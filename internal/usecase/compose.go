package usecase

import (
	"fmt"
	"strings"

	"mfc-voice-agent/internal/domain"
)

// JoinForSpeech joins items with Oxford-comma rules so the voice platform
// reads them naturally: one item stands alone, two get "and", three or more
// get commas with a final ", and".
func JoinForSpeech(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// NotFoundMessage is the branded empty-result reply. Voice endpoints never
// return an empty list; they offer a human instead.
func NotFoundMessage(subject, callbackNumber string) string {
	return fmt.Sprintf("I couldn't find any %s matching that, but one of our feed specialists can help you directly. You can reach the Montana Feed Company team at %s.", subject, callbackNumber)
}

// ProductsSentence renders a product result set as one spoken sentence.
func ProductsSentence(products []domain.Product, callbackNumber string) string {
	if len(products) == 0 {
		return NotFoundMessage("products", callbackNumber)
	}
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	if len(products) == 1 {
		return fmt.Sprintf("I found %s: %s", names[0], products[0].Description)
	}
	return fmt.Sprintf("I found %d products that fit: %s.", len(products), JoinForSpeech(names))
}

// WarehousesSentence renders warehouse results as one spoken sentence.
func WarehousesSentence(warehouses []domain.Warehouse, callbackNumber string) string {
	if len(warehouses) == 0 {
		return NotFoundMessage("warehouse locations", callbackNumber)
	}
	descs := make([]string, 0, len(warehouses))
	for _, w := range warehouses {
		descs = append(descs, fmt.Sprintf("%s in %s at %s, open %s", w.Name, w.City, w.Address, w.Hours))
	}
	return fmt.Sprintf("We have %s.", JoinForSpeech(descs))
}

// SpecialistSentence renders a resolved specialist for the voice platform.
// The county is echoed exactly as the caller said it.
func SpecialistSentence(res Resolution, spokenCounty, callbackNumber string) string {
	if res.Territory == nil || res.Specialist == nil {
		return fmt.Sprintf("I don't have a specialist assigned for that area yet, but our team can still help. Give us a call at %s and we'll get you taken care of.", callbackNumber)
	}
	return fmt.Sprintf("Your specialist for %s is %s, covering the %s territory. You can reach them at %s.",
		strings.TrimSpace(spokenCounty), res.Specialist.Name, res.Territory.Name, res.Specialist.Phone)
}
