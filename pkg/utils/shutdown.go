package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext возвращает контекст, отменяемый по SIGINT/SIGTERM.
//
// Возвращаемая функция снимает обработчик сигналов и закрывает лог,
// её следует вызывать через defer в main():
//
//	ctx, shutdown := utils.SignalContext(context.Background())
//	defer shutdown()
func SignalContext(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			Info("Received signal, shutting down gracefully", "signal", sig.String())
			cancel()
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		close(done)
		cancel()
		Close()
	}
}
