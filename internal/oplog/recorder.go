package oplog

import "go.uber.org/zap"

// Recorder fans opportunity records out to the text log file and the sqlite
// store. Sink failures are logged, never propagated: losing a log line must
// not abort a scan tick.
type Recorder struct {
	file  *FileSink
	store *Store
	log   *zap.Logger
}

func NewRecorder(file *FileSink, store *Store, log *zap.Logger) *Recorder {
	return &Recorder{file: file, store: store, log: log}
}

func (r *Recorder) Opportunity(message string) {
	if r.file != nil {
		if err := r.file.Append(message); err != nil {
			r.log.Warn("opportunity file sink failed", zap.Error(err))
		}
	}
	if r.store != nil {
		if err := r.store.AppendOpportunity(message); err != nil {
			r.log.Warn("opportunity store failed", zap.Error(err))
		}
	}
}

func (r *Recorder) TradeConfirmed(txHash, profit string) {
	if r.store != nil {
		if err := r.store.SetTradeRealized(txHash, profit); err != nil {
			r.log.Warn("trade realized-profit update failed", zap.Error(err))
		}
	}
}

func (r *Recorder) TradeSubmitted(t Trade) {
	if r.file != nil {
		line := "TRADE | " + t.Direction + " | " + t.Pair + " | " + t.TxHash
		if err := r.file.Append(line); err != nil {
			r.log.Warn("trade file sink failed", zap.Error(err))
		}
	}
	if r.store != nil {
		if err := r.store.AppendTrade(t); err != nil {
			r.log.Warn("trade store failed", zap.Error(err))
		}
	}
}
