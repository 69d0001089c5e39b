// Copyright (c) 2024 Pragmagic Inc. and/or its affiliates.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/taxiwale/roadnet/internal/roadnet"
)

const svgDefs = `<defs>
<linearGradient id="roadGradient" x1="0%" y1="0%" x2="100%" y2="0%"><stop offset="0%" stop-color="#FFD65A"/><stop offset="50%" stop-color="#FFB300"/><stop offset="100%" stop-color="#FF8C00"/></linearGradient>
<linearGradient id="cityGradient" x1="0%" y1="0%" x2="0%" y2="100%"><stop offset="0%" stop-color="#FFB300"/><stop offset="100%" stop-color="#FF7B00"/></linearGradient>
<radialGradient id="hubGlow" cx="50%" cy="50%"><stop offset="0%" stop-color="#FFB300" stop-opacity="0.8"/><stop offset="50%" stop-color="#FFB300" stop-opacity="0.4"/><stop offset="100%" stop-color="#FFB300" stop-opacity="0"/></radialGradient>
<filter id="roadGlow" x="-50%" y="-50%" width="200%" height="200%"><feGaussianBlur stdDeviation="3" result="coloredBlur"/><feMerge><feMergeNode in="coloredBlur"/><feMergeNode in="SourceGraphic"/></feMerge></filter>
<filter id="cityGlow" x="-100%" y="-100%" width="300%" height="300%"><feGaussianBlur stdDeviation="4" result="coloredBlur"/><feMerge><feMergeNode in="coloredBlur"/><feMergeNode in="SourceGraphic"/></feMerge></filter>
</defs>
`

// WriteSVG serializes the draw list as a standalone SVG document. With
// animate set, the entrance plan is embedded as SMIL animations.
func WriteSVG(w io.Writer, canvas roadnet.Canvas, list []Primitive, animate bool) error {
	var requests map[string][]Request
	if animate {
		requests = make(map[string][]Request)
		for _, req := range EntrancePlan(list) {
			requests[req.Target] = append(requests[req.Target], req)
		}
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" preserveAspectRatio="xMidYMid meet">`+"\n",
		num(canvas.Width), num(canvas.Height))
	b.WriteString(svgDefs)
	for i := range list {
		writePrimitive(&b, &list[i], requests[list[i].ID])
	}
	b.WriteString("</svg>\n")

	if _, err := w.Write(b.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write svg")
	}
	return nil
}

func writePrimitive(b *bytes.Buffer, p *Primitive, animations []Request) {
	fmt.Fprintf(b, "<%s", p.Kind)
	attr(b, "id", p.ID)
	attr(b, "class", p.Class)
	if p.Location != "" {
		attr(b, "data-location", p.Location)
	}
	if p.Connection != "" {
		attr(b, "data-connection", p.Connection)
	}

	switch p.Kind {
	case circleKind:
		attr(b, "cx", num(p.CX))
		attr(b, "cy", num(p.CY))
		attr(b, "r", num(p.R))
	case pathKind:
		attr(b, "d", p.D)
		if p.Style.Fill == "" {
			attr(b, "fill", "none")
		}
	case textKind:
		attr(b, "x", num(p.X))
		attr(b, "y", num(p.Y))
		attr(b, "font-size", num(p.FontSize))
		if p.FontWeight != 0 {
			attr(b, "font-weight", strconv.Itoa(p.FontWeight))
		}
		if p.Anchor != "" {
			attr(b, "text-anchor", p.Anchor)
		}
	case rectKind:
		attr(b, "x", num(p.X))
		attr(b, "y", num(p.Y))
		attr(b, "width", num(p.Width))
		attr(b, "height", num(p.Height))
		attr(b, "rx", num(p.RX))
	}
	writeStyle(b, &p.Style, animations)
	b.WriteString(">")

	if p.Kind == textKind {
		_ = xml.EscapeText(b, []byte(p.Text))
	}
	for i := range animations {
		writeAnimation(b, p, &animations[i])
	}
	fmt.Fprintf(b, "</%s>\n", p.Kind)
}

func writeStyle(b *bytes.Buffer, s *Style, animations []Request) {
	if s.Fill != "" {
		attr(b, "fill", s.Fill)
	}
	if s.Stroke != "" {
		attr(b, "stroke", s.Stroke)
	}
	if s.StrokeWidth != 0 {
		attr(b, "stroke-width", num(s.StrokeWidth))
	}
	attr(b, "opacity", num(s.Opacity))
	switch {
	case s.DashArray != "":
		attr(b, "stroke-dasharray", s.DashArray)
	default:
		// a solid stroke is revealed by a single dash as long as the path
		for _, req := range animations {
			if req.Property == DashOffset && !req.Loop && req.From > 0 {
				attr(b, "stroke-dasharray", num(req.From))
				break
			}
		}
	}
	if s.Filter != "" {
		attr(b, "filter", s.Filter)
	}
}

func writeAnimation(b *bytes.Buffer, p *Primitive, req *Request) {
	name := string(req.Property)
	from, to := req.From, req.To
	switch req.Property {
	case Scale:
		name = "r"
		from, to = req.From*p.R, req.To*p.R
	case DashOffset:
		name = "stroke-dashoffset"
	}

	b.WriteString("<animate")
	attr(b, "attributeName", name)
	attr(b, "from", num(from))
	attr(b, "to", num(to))
	attr(b, "dur", strconv.FormatInt(req.Duration, 10)+"ms")
	attr(b, "begin", strconv.FormatInt(req.Delay, 10)+"ms")
	if req.Loop {
		attr(b, "repeatCount", "indefinite")
	} else {
		attr(b, "fill", "freeze")
	}
	b.WriteString("/>")
}

func attr(b *bytes.Buffer, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString(`"`)
}
