package matchmaker

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"gorm.io/datatypes"
)

// SampleNames draws count names from pool uniformly without replacement.
// Shuffling a copy and taking the prefix gives every count-subset the
// same probability; the pool itself is never reordered.
func SampleNames(pool []string, count int) []string {
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}

// PickTarget chooses player1's secret name uniformly among the game names.
func PickTarget(gameNames []string) string {
	return gameNames[rand.Intn(len(gameNames))]
}

// PickSecondTarget chooses player2's secret name uniformly among the game
// names excluding player1's target, so the two assignments always differ.
func PickSecondTarget(gameNames []string, target1 string) (string, error) {
	candidates := make([]string, 0, len(gameNames))
	for _, name := range gameNames {
		if name != target1 {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no candidate target names besides %q", target1)
	}
	return candidates[rand.Intn(len(candidates))], nil
}

// DecodeNames unpacks a stored jsonb name array.
func DecodeNames(data datatypes.JSON) ([]string, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// EncodeNames packs a name array for jsonb storage.
func EncodeNames(names []string) (datatypes.JSON, error) {
	data, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
