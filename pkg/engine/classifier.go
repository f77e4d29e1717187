package engine

import (
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// ClassificationThreshold is the minimum number of positive indicators a
// symptom group needs before it can win the classification. Fixed; tenant
// configuration cannot change it.
const ClassificationThreshold = 2

// Classify assigns the patient context to exactly one symptom category.
//
// A group wins when its indicator count reaches the threshold and strictly
// exceeds the other group's count. Both groups at threshold with no strict
// winner is Mixed. Neither group at threshold is Unclear. Total over every
// input, including the all-false context.
func Classify(input *models.PatientContext) models.Category {
	voiding := input.VoidingCount()
	storage := input.StorageCount()

	voidingMeets := voiding >= ClassificationThreshold
	storageMeets := storage >= ClassificationThreshold

	switch {
	case voidingMeets && voiding > storage:
		return models.CategoryVoiding
	case storageMeets && storage > voiding:
		return models.CategoryStorage
	case voidingMeets && storageMeets:
		return models.CategoryMixed
	default:
		return models.CategoryUnclear
	}
}
