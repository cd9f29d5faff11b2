package actions

import "errors"

var (
	ErrUnknownCheckpoint = errors.New("чекпоинт не открыт")
	ErrNoLineOfSight     = errors.New("цель не видна")
	ErrPortalUnavailable = errors.New("портал здесь не открыть")
)
