package types

import "errors"

var (
	ErrMissingAPIURL     = errors.New("no API URL configured. Set api_url in the config file or FINANZAS_API_URL")
	ErrUnauthorized      = errors.New("session expired or invalid credentials, please log in again")
	ErrAmountOutOfRange  = errors.New("amount is outside the accepted projection range")
	ErrNotEditing        = errors.New("no projection edit in progress")
	ErrEditInProgress    = errors.New("a projection save is already in progress")
	ErrMonthNotFound     = errors.New("month not found in the loaded window")
	ErrConceptNotFound   = errors.New("concept not found in the loaded window")
	ErrSnapshotNotFound  = errors.New("no dashboard snapshot stored yet")
	ErrUnknownReportType = errors.New("unknown report type")
	ErrPastMonth         = errors.New("projections can only be set for the current or future months")
)
