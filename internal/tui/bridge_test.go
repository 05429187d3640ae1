package tui

import (
	"sync"
	"testing"

	"github.com/agbru/usagewarn/internal/orchestration"
	"github.com/agbru/usagewarn/internal/threshold"
)

func TestProgramRef_Send_NilProgram(t *testing.T) {
	ref := &programRef{} // program is nil
	// Should not panic
	ref.Send(ReadingsMsg{})
}

func TestProgramRef_Send_Concurrent(t *testing.T) {
	ref := &programRef{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref.Send(NotificationMsg{Message: "x"})
		}()
	}
	wg.Wait()
}

func TestSink_WithoutProgramDropsMessages(t *testing.T) {
	sink := NewSink()
	sink.Present([]orchestration.Reading{orchestration.NewReading(threshold.CPU, 12)})
	sink.Notify(orchestration.StartupMessage)
	sink.RenderMenu(orchestration.MenuState{})
}
