package audio

import (
	"encoding/binary"
	"io"
	"math"

	"outloud/internal/services"
)

// WriteWAV encodes mono float32 samples as a 16-bit PCM RIFF stream. The
// synthesis service returns samples in [-1, 1]; values outside that range
// are clipped rather than wrapped.
func WriteWAV(w io.Writer, samples []float32, sampleRate int) error {
	const (
		channels       = 1
		bitsPerSample  = 16
		bytesPerSample = bitsPerSample / 8
	)
	dataSize := len(samples) * bytesPerSample
	byteRate := sampleRate * channels * bytesPerSample

	header := make([]byte, 0, 44)
	header = append(header, "RIFF"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(36+dataSize))
	header = append(header, "WAVE"...)
	header = append(header, "fmt "...)
	header = binary.LittleEndian.AppendUint32(header, 16)
	header = binary.LittleEndian.AppendUint16(header, 1) // PCM
	header = binary.LittleEndian.AppendUint16(header, channels)
	header = binary.LittleEndian.AppendUint32(header, uint32(sampleRate))
	header = binary.LittleEndian.AppendUint32(header, uint32(byteRate))
	header = binary.LittleEndian.AppendUint16(header, channels*bytesPerSample)
	header = binary.LittleEndian.AppendUint16(header, bitsPerSample)
	header = append(header, "data"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(dataSize))
	if _, err := w.Write(header); err != nil {
		return services.Wrap(services.ErrTransient, "audio", "write wav", "failed to write wav header", err)
	}

	data := make([]byte, dataSize)
	for i, sample := range samples {
		v := float64(sample)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(math.Round(v*32767))))
	}
	if _, err := w.Write(data); err != nil {
		return services.Wrap(services.ErrTransient, "audio", "write wav", "failed to write wav data", err)
	}
	return nil
}
