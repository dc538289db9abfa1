package model

import (
	"fmt"
	"strings"
	"time"
)

// Level is the skill tier assigned to a student.
type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// ParseLevel normalizes raw input (query params, CSV cells) to a Level.
func ParseLevel(raw string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(raw))) {
	case LevelBeginner:
		return LevelBeginner, nil
	case LevelIntermediate:
		return LevelIntermediate, nil
	case LevelAdvanced:
		return LevelAdvanced, nil
	}
	return "", fmt.Errorf("invalid level %q", raw)
}

type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Student struct {
	ID        int64
	Username  string
	Level     Level
	CreatedAt time.Time
	UpdatedAt time.Time
}
