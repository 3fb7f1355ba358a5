// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"sort"
	"strings"
)

// DefaultKeywords is used when the caller names no keywords and no known
// research domain.
const DefaultKeywords = "computer vision"

// domainKeywords maps the preset research domains to their search terms.
var domainKeywords = map[string]string{
	"computer-vision-basics": "computer vision image processing pattern recognition",
	"deep-learning-vision":   "deep learning computer vision CNN neural network",
	"industrial-inspection":  "industrial vision inspection machine vision quality control automated optical inspection",
	"medical-imaging":        "medical image analysis medical imaging radiology computer aided diagnosis",
	"robot-vision":           "robot vision robotic perception visual servoing",
	"autonomous-driving":     "autonomous driving computer vision object detection lane detection",
	"face-recognition":       "face recognition facial recognition biometric identification",
	"object-detection":       "object detection YOLO R-CNN detection algorithms",
	"optical-system-design":  "optical system design lens design optimization imaging optics design",
	"lens-optimization":      "lens optimization aberration correction optical design software zemax",
	"optical-imaging":        "optical imaging system lens array design optical system engineering",
}

// ResolveKeywords picks the search terms for a run: an explicit override
// wins, then the domain preset, then DefaultKeywords.
func ResolveKeywords(domain, override string) string {
	if kw := strings.TrimSpace(override); kw != "" {
		return kw
	}
	if kw, ok := domainKeywords[domain]; ok {
		return kw
	}
	return DefaultKeywords
}

// Domains returns the preset domain names in sorted order.
func Domains() []string {
	names := make([]string, 0, len(domainKeywords))
	for name := range domainKeywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
