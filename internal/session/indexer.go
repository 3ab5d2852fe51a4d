package session

import "github.com/philipparndt/godtr/internal/events"

// SetIndexerRunning mirrors the state of the external indexing process
// into the availability of its start, stop and rerun commands
func (s *Session) SetIndexerRunning(running bool) {
	s.indexerRunning = running
	s.log.Info("indexer state changed", "running", running)
	s.updateIndexerActions()
}

// IndexerRunning reports the last mirrored indexer state
func (s *Session) IndexerRunning() bool {
	return s.indexerRunning
}

func (s *Session) updateIndexerActions() {
	s.setEnabled(events.IndexerStart, !s.indexerRunning)
	s.setEnabled(events.IndexerStop, s.indexerRunning)
	s.setEnabled(events.IndexerRerun, s.indexerRunning)
}

// StartIndexer asks the indexer owner to start the process
func (s *Session) StartIndexer() bool {
	return s.request(events.IndexerStart, events.IndexerStartRequested)
}

// StopIndexer asks the indexer owner to stop the process
func (s *Session) StopIndexer() bool {
	return s.request(events.IndexerStop, events.IndexerStopRequested)
}

// RerunIndexer asks the indexer owner to run the process again
func (s *Session) RerunIndexer() bool {
	return s.request(events.IndexerRerun, events.IndexerRerunRequested)
}

func (s *Session) request(a events.Action, k events.Kind) bool {
	if !s.enabled[a] {
		return false
	}
	s.bus.Emit(events.Event{Kind: k})
	return true
}
