package translate

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound 找不到來源料理
	ErrSourceNotFound = errors.New("source dish not found")
	// ErrNoCandidates 目標菜系沒有可比對的料理
	ErrNoCandidates = errors.New("no candidate dishes")
)

// NoCandidatesError 帶有菜系名稱的 ErrNoCandidates
type NoCandidatesError struct {
	Cuisine string
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no flavor data available for %s cuisine yet", e.Cuisine)
}

// Is 讓 errors.Is(err, ErrNoCandidates) 成立
func (e *NoCandidatesError) Is(target error) bool {
	return target == ErrNoCandidates
}
