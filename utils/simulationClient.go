package utils

import (
	"encoding/json"
	"fmt"
	"lms/config"
	"log"

	"github.com/go-resty/resty/v2"
)

// CheckSimulationCompleted asks the external simulation platform whether the
// student finished the simulation exercise of a course. The platform is the
// source of truth; the progress record only caches its verdict.
func CheckSimulationCompleted(studentEmail string, courseID uint) (bool, error) {
	if config.AppConfig == nil || config.AppConfig.SimulationApiKey == "" {
		// No simulator wired up (local/dev): trust the client
		return true, nil
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.SimulationApiKey).
		SetQueryParams(map[string]string{
			"email":     studentEmail,
			"course_id": fmt.Sprintf("%d", courseID),
		}).
		Get(config.AppConfig.SimulationApiURL + "completions")
	if err != nil {
		log.Printf("Simulation API error: %v", err)
		return false, err
	}
	if resp.StatusCode() != 200 {
		log.Printf("Simulation API returned %d: %s", resp.StatusCode(), resp.String())
		return false, fmt.Errorf("simulation API status %d", resp.StatusCode())
	}

	var result struct {
		Completed bool `json:"completed"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return false, fmt.Errorf("invalid simulation API response: %w", err)
	}
	return result.Completed, nil
}
