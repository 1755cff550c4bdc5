package tui

import "github.com/pithecene-io/adbpush/types"

type deviceRefreshedMsg struct {
	device types.DeviceID
}

type outcomeMsg struct {
	outcome types.TransferOutcome
}

type batchDoneMsg struct{}
