package main

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/htp-ble/htp-go/internal/sim"
	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/link"
	"github.com/htp-ble/htp-go/pkg/services"
)

// autoCentral is the address of the central started by -auto.
var autoCentral = ble.Address{Type: ble.AddressPublic, MAC: ble.MAC{0x01, 0x00, 0x00, 0xEF, 0xCD, 0xAB}}

// runMeasurements posts a slowly drifting body temperature every interval.
func runMeasurements(ctx context.Context, sys *system, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			minutes := now.Sub(start).Minutes()
			celsius := 36.6 + 0.4*math.Sin(minutes/10)
			if err := sys.Post(ble.MeasurementTaken{Reading: services.NewReading(celsius)}); err != nil {
				return
			}
			logger.Debug("[SIM] measurement", "celsius", math.Round(celsius*100)/100)
		}
	}
}

// runAutoCentral connects a central whenever the device advertises, pairs
// or re-encrypts the link and enables temperature notifications.
func runAutoCentral(ctx context.Context, sys *system, logger *slog.Logger) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	central := sys.Central()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		st, err := sys.Status()
		if err != nil {
			continue
		}
		switch st.State {
		case link.StateFastAdvertising, link.StateSlowAdvertising:
			if _, err := central.Connect(autoCentral, sim.DefaultLinkParams); err != nil {
				logger.Debug("[SIM] connect failed", "error", err)
				continue
			}
			logger.Info("[SIM] central connected", "peer", autoCentral)
		case link.StateConnected:
			if st.Encrypted {
				continue
			}
			secure := central.Pair
			if st.Bonded {
				secure = central.Encrypt
			}
			if err := secure(); err != nil {
				continue
			}
			time.Sleep(100 * time.Millisecond)
			if err := central.Write(gatt.HandleTemperatureConfig, gatt.ConfigNotification.Bytes()); err != nil {
				logger.Debug("[SIM] enable notifications failed", "error", err)
			}
		}
	}
}
