package worker

import (
	"context"
	"log"
	"time"

	"issuing-service/internal/usecase/remit"
)

const transferBatchSize = 50

// TransferWorker walks pending remittance transfers through the settlement
// states on a fixed interval. It only advances recorded state; the actual
// rails are outside this service.
type TransferWorker struct {
	remit    *remit.Service
	interval time.Duration
	stopChan chan struct{}
}

func NewTransferWorker(remitSvc *remit.Service, interval time.Duration) *TransferWorker {
	return &TransferWorker{
		remit:    remitSvc,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (w *TransferWorker) Start(ctx context.Context) {
	log.Printf("Transfer worker starting | Interval=%s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.remit.AdvancePending(ctx, transferBatchSize)

		case <-w.stopChan:
			log.Println("Transfer worker stopping")
			return

		case <-ctx.Done():
			log.Println("Context cancelled, stopping transfer worker")
			return
		}
	}
}

func (w *TransferWorker) Stop() {
	close(w.stopChan)
}
