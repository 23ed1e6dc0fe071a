package telemetry_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"i4.energy/across/wifigw/modem"
	"i4.energy/across/wifigw/telemetry"
)

func TestPublisherRun(t *testing.T) {
	t.Run("Establishes then sends every sample", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		uplink := telemetry.NewMockUplink(ctrl)
		established := false

		uplink.EXPECT().Established().DoAndReturn(func() bool { return established }).AnyTimes()
		gomock.InOrder(
			uplink.EXPECT().EstablishConnection(gomock.Any(), "10.0.0.2", 5000).DoAndReturn(
				func(context.Context, string, int) error {
					established = true
					return nil
				}),
			uplink.EXPECT().SendPayload(gomock.Any(), `{"ACC":0,"X":0.000,"Y":0.000,"Z":1.000}`).Return(nil),
			uplink.EXPECT().SendPayload(gomock.Any(), `{"ACC":1,"X":0.000,"Y":0.000,"Z":0.980}`).Return(nil),
		)

		var sent []telemetry.Sample
		p := &telemetry.Publisher{
			Uplink: uplink,
			Source: telemetry.NewLineSource(strings.NewReader("ACC 0 0 1\nACC 0 0 0.98\n")),
			Host:   "10.0.0.2",
			Port:   5000,
			OnSent: func(s telemetry.Sample) { sent = append(sent, s) },
		}

		assert.NoError(t, p.Run(context.Background()))
		assert.Len(t, sent, 2)
	})

	t.Run("Retries failed connection attempts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		uplink := telemetry.NewMockUplink(ctrl)
		established := false

		uplink.EXPECT().Established().DoAndReturn(func() bool { return established }).AnyTimes()
		gomock.InOrder(
			uplink.EXPECT().EstablishConnection(gomock.Any(), gomock.Any(), gomock.Any()).Return(modem.ErrConnectTimeout),
			uplink.EXPECT().EstablishConnection(gomock.Any(), gomock.Any(), gomock.Any()).Return(modem.ErrConnectFailed),
			uplink.EXPECT().EstablishConnection(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(context.Context, string, int) error {
					established = true
					return nil
				}),
			uplink.EXPECT().SendPayload(gomock.Any(), gomock.Any()).Return(nil),
		)

		p := &telemetry.Publisher{
			Uplink:     uplink,
			Source:     telemetry.NewLineSource(strings.NewReader("GYR 1 2 3\n")),
			RetryDelay: time.Millisecond,
		}
		assert.NoError(t, p.Run(context.Background()))
	})

	t.Run("Re-establishes after link loss", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		uplink := telemetry.NewMockUplink(ctrl)
		source := telemetry.NewMockSource(ctrl)
		established := true

		uplink.EXPECT().Established().DoAndReturn(func() bool { return established }).AnyTimes()
		gomock.InOrder(
			source.EXPECT().Next(gomock.Any()).Return(telemetry.Sample{Label: "MAG"}, nil),
			uplink.EXPECT().SendPayload(gomock.Any(), gomock.Any()).DoAndReturn(
				func(context.Context, string) error {
					established = false
					return modem.ErrLinkLost
				}),
			uplink.EXPECT().EstablishConnection(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(context.Context, string, int) error {
					established = true
					return nil
				}),
			source.EXPECT().Next(gomock.Any()).Return(telemetry.Sample{Label: "MAG", Packet: 1}, nil),
			uplink.EXPECT().SendPayload(gomock.Any(), gomock.Any()).Return(modem.ErrRateLimited),
			source.EXPECT().Next(gomock.Any()).Return(telemetry.Sample{}, io.EOF),
		)

		p := &telemetry.Publisher{Uplink: uplink, Source: source}
		assert.NoError(t, p.Run(context.Background()))
	})

	t.Run("Source errors end the run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		uplink := telemetry.NewMockUplink(ctrl)
		source := telemetry.NewMockSource(ctrl)
		readErr := errors.New("device gone")

		uplink.EXPECT().Established().Return(true).AnyTimes()
		source.EXPECT().Next(gomock.Any()).Return(telemetry.Sample{}, readErr)

		p := &telemetry.Publisher{Uplink: uplink, Source: source}
		assert.ErrorIs(t, p.Run(context.Background()), readErr)
	})

	t.Run("Cancellation during retry wait", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		uplink := telemetry.NewMockUplink(ctrl)
		ctx, cancel := context.WithCancel(context.Background())

		uplink.EXPECT().Established().Return(false).AnyTimes()
		uplink.EXPECT().EstablishConnection(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, string, int) error {
				cancel()
				return modem.ErrConnectTimeout
			})

		p := &telemetry.Publisher{Uplink: uplink, Source: telemetry.NewMockSource(ctrl), RetryDelay: time.Hour}
		assert.ErrorIs(t, p.Run(ctx), context.Canceled)
	})
}
