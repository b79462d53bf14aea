// Package audio turns raw synthesis samples into MP3 artifacts.
package audio
