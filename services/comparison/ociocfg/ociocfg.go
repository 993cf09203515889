// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ociocfg patches OpenColorIO configuration files.
//
// OCIO configs are YAML documents with type-tagged nodes (!<ColorSpace>,
// !<View>, !<GroupTransform>, ...). Renderer builders that graft a vendor
// LUT onto a stock ACES config use this package to append a colorspace
// backed by a transform chain, register a new display view referencing
// it, and serialize the patched document back to disk.
//
// The document is manipulated as a yaml.Node tree rather than decoded
// into Go structs: configs contain far more than the pipeline models, and
// the node tree preserves tags, ordering, and content the pipeline never
// looks at.
package ociocfg

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for config patching.
var (
	// ErrMalformedConfig is returned when a document is missing the
	// structure a patch operation needs (e.g. no colorspaces sequence).
	ErrMalformedConfig = errors.New("malformed OCIO config")

	// ErrInconsistentConfig is returned by Validate when a patched
	// document references names it does not define. A builder hitting
	// this must treat its whole build as failed.
	ErrInconsistentConfig = errors.New("inconsistent OCIO config")
)

// Config is a loaded OCIO configuration document.
type Config struct {
	doc *yaml.Node
}

// Load reads and parses the OCIO config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OCIO config: %w", err)
	}
	return Parse(data)
}

// Parse parses an OCIO config from raw YAML bytes.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing OCIO config: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrMalformedConfig)
	}
	return &Config{doc: &doc}, nil
}

// root returns the top-level mapping node.
func (c *Config) root() *yaml.Node {
	return c.doc.Content[0]
}

// AddColorSpace appends a scene-referred colorspace built from the given
// transform chain.
//
// The transforms are wrapped in a !<GroupTransform> applied in order as
// the colorspace's from_scene_reference chain.
func (c *Config) AddColorSpace(name string, transforms ...*yaml.Node) error {
	colorspaces := mapValue(c.root(), "colorspaces")
	if colorspaces == nil || colorspaces.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: no colorspaces sequence", ErrMalformedConfig)
	}

	cs := taggedMapping("ColorSpace", 0)
	appendPair(cs, "name", scalar(name))
	appendPair(cs, "from_scene_reference", GroupTransform(transforms...))
	colorspaces.Content = append(colorspaces.Content, cs)
	return nil
}

// AddDisplayView registers a view under the given display, backed by the
// named colorspace. The display is created when it does not exist yet.
func (c *Config) AddDisplayView(display, view, colorspace string) error {
	displays := mapValue(c.root(), "displays")
	if displays == nil || displays.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: no displays mapping", ErrMalformedConfig)
	}

	views := mapValue(displays, display)
	if views == nil {
		views = &yaml.Node{Kind: yaml.SequenceNode}
		appendPair(displays, display, views)
	}
	if views.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: display %q is not a view sequence", ErrMalformedConfig, display)
	}

	v := taggedMapping("View", yaml.FlowStyle)
	appendPair(v, "name", scalar(view))
	appendPair(v, "colorspace", scalar(colorspace))
	views.Content = append(views.Content, v)
	return nil
}

// SetSearchPath sets the config's LUT search path.
func (c *Config) SetSearchPath(path string) {
	root := c.root()
	if existing := mapValue(root, "search_path"); existing != nil {
		*existing = *scalar(path)
		return
	}
	appendPair(root, "search_path", scalar(path))
}

// ColorSpaceNames returns every colorspace and display colorspace name
// defined by the document, in definition order.
func (c *Config) ColorSpaceNames() []string {
	var names []string
	for _, key := range []string{"colorspaces", "display_colorspaces"} {
		seq := mapValue(c.root(), key)
		if seq == nil || seq.Kind != yaml.SequenceNode {
			continue
		}
		for _, entry := range seq.Content {
			if name := mapValue(entry, "name"); name != nil {
				names = append(names, name.Value)
			}
		}
	}
	return names
}

// Validate checks the internal consistency of the patched document.
//
// Every display view that selects pixels through a plain colorspace must
// reference a defined colorspace, and every colorspace and view entry
// must carry its bare OCIO type tag. Views driven by a view_transform
// are resolved by OCIO itself and are not name-checked here.
func (c *Config) Validate() error {
	known := make(map[string]bool)
	for _, name := range c.ColorSpaceNames() {
		if known[name] {
			return fmt.Errorf("%w: duplicate colorspace %q", ErrInconsistentConfig, name)
		}
		known[name] = true
	}
	if len(known) == 0 {
		return fmt.Errorf("%w: no colorspaces defined", ErrInconsistentConfig)
	}

	for _, key := range []string{"colorspaces", "display_colorspaces"} {
		seq := mapValue(c.root(), key)
		if seq == nil {
			continue
		}
		for _, entry := range seq.Content {
			if entry.Tag != "ColorSpace" {
				return fmt.Errorf("%w: %s entry carries tag %q instead of a ColorSpace tag",
					ErrInconsistentConfig, key, entry.Tag)
			}
		}
	}

	displays := mapValue(c.root(), "displays")
	if displays == nil || displays.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: no displays mapping", ErrInconsistentConfig)
	}
	for i := 0; i+1 < len(displays.Content); i += 2 {
		display := displays.Content[i].Value
		views := displays.Content[i+1]
		if views.Kind != yaml.SequenceNode {
			continue
		}
		for _, view := range views.Content {
			// Shared view references (!<Views>) are resolved by OCIO.
			if view.Tag == "Views" {
				continue
			}
			if view.Tag != "View" {
				return fmt.Errorf("%w: display %q has an entry with tag %q instead of a View tag",
					ErrInconsistentConfig, display, view.Tag)
			}
			if vt := mapValue(view, "view_transform"); vt != nil {
				continue
			}
			cs := mapValue(view, "colorspace")
			if cs == nil {
				return fmt.Errorf("%w: display %q has a view without colorspace", ErrInconsistentConfig, display)
			}
			if cs.Value != "<USE_DISPLAY_NAME>" && !known[cs.Value] {
				name := mapValue(view, "name")
				viewName := ""
				if name != nil {
					viewName = name.Value
				}
				return fmt.Errorf("%w: view %q of display %q references unknown colorspace %q",
					ErrInconsistentConfig, viewName, display, cs.Value)
			}
		}
	}
	return nil
}

// Marshal serializes the document back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c.doc)
	if err != nil {
		return nil, fmt.Errorf("serializing OCIO config: %w", err)
	}
	return data, nil
}

// WriteFile validates and writes the document to path.
//
// The serialized bytes are re-parsed and validated before anything
// touches disk, so a patch that does not survive emission fails the
// build instead of caching a broken config.
func (c *Config) WriteFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	reparsed, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%w: patched document does not re-parse: %v", ErrInconsistentConfig, err)
	}
	if err := reparsed.Validate(); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing OCIO config: %w", err)
	}
	return nil
}

// GroupTransform builds a !<GroupTransform> node applying the children in
// order.
func GroupTransform(children ...*yaml.Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	seq.Content = append(seq.Content, children...)
	group := taggedMapping("GroupTransform", 0)
	appendPair(group, "children", seq)
	return group
}

// ColorSpaceTransform builds a !<ColorSpaceTransform> node converting
// from src to dst.
func ColorSpaceTransform(src, dst string) *yaml.Node {
	node := taggedMapping("ColorSpaceTransform", yaml.FlowStyle)
	appendPair(node, "src", scalar(src))
	appendPair(node, "dst", scalar(dst))
	return node
}

// FileTransform builds a !<FileTransform> node applying a LUT file that
// is resolved against the config's search path.
func FileTransform(src, interpolation string) *yaml.Node {
	node := taggedMapping("FileTransform", yaml.FlowStyle)
	appendPair(node, "src", scalar(src))
	if interpolation != "" {
		appendPair(node, "interpolation", scalar(interpolation))
	}
	return node
}

// taggedMapping builds a mapping node carrying an OCIO type tag.
//
// The emitter renders a tag without a "!" prefix verbatim as !<name>
// when TaggedStyle is set, matching how the parser represents the
// stock config's tags. Storing the "!<name>" form in Tag instead gets
// percent-escaped on output.
func taggedMapping(name string, style yaml.Style) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: name, Style: yaml.TaggedStyle | style}
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// mapValue returns the value node for key in a mapping node, or nil.
func mapValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalar(key), value)
}
