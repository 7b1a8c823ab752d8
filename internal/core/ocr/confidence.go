package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reHasEmail = regexp.MustCompile(`\S+@\S+\.\w{2,}`)
	reHasPhone = regexp.MustCompile(`\d[\d ().\-]{6,}\d`)
	reHasWeb   = regexp.MustCompile(`(?i)\b(?:www\.|https?://)`)
)

// heuristicConfidence scores decoded text by the contact artifacts it contains.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2)
	if reHasEmail.MatchString(txt) {
		score += 0.25
	}
	if reHasPhone.MatchString(txt) {
		score += 0.2
	}
	if reHasWeb.MatchString(txt) {
		score += 0.15
	}
	if len(txt) > 60 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// meanTSVConfidence returns the mean word confidence of tesseract TSV output in 0..1.
func meanTSVConfidence(tsv string) float32 {
	var sum, n float64
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || ln == "" {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := strings.TrimSpace(cols[10])
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil && v >= 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float32(sum / n / 100.0)
}

func blendConfidence(ocrConf, heurConf float32) float32 {
	conf := heurConf
	if ocrConf > 0 {
		conf = 0.7*ocrConf + 0.3*heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
