package export

// File is one assembled output: a filename and its full content. Content
// carries no trailing newline.
type File struct {
	Name    string
	Content string
}

// Assemble resolves each group's final filename and concatenates its
// fragments. The filename chain, first match wins:
//
//  1. the explicit output path, only when there is exactly one group;
//  2. the group's tangle target;
//  3. the group's ":file" override (first block carrying one);
//  4. document stem plus the extension for the group's language.
//
// An explicit output with several groups is an OutputConflictError rather
// than a silent misroute; a group whose language has no known extension is
// an InferenceError.
func (r *Router) Assemble(groups []*Group, output string) ([]File, error) {
	if output != "" {
		if len(groups) != 1 {
			return nil, &OutputConflictError{Output: output, Targets: describeTargets(groups)}
		}
		return []File{{Name: output, Content: groups[0].Content()}}, nil
	}

	files := make([]File, 0, len(groups))
	for _, g := range groups {
		name := g.Target
		if name == "" {
			name = fileOverride(g)
		}
		if name == "" {
			var err error
			name, err = r.synthesize(g)
			if err != nil {
				return nil, err
			}
		}
		r.log.Debugf("assembled %s from %d block(s)", name, len(g.Blocks))
		files = append(files, File{Name: name, Content: g.Content()})
	}
	return files, nil
}

// fileOverride returns the group's ":file" name, taken from the first block
// that declares one.
func fileOverride(g *Group) string {
	for _, b := range g.Blocks {
		if b.FileName != "" {
			return b.FileName
		}
	}
	return ""
}

// synthesize builds the fallback filename from the document stem and the
// group language's extension.
func (r *Router) synthesize(g *Group) (string, error) {
	language := g.Language()
	if language == "" {
		return "", &InferenceError{}
	}
	ext, ok := r.langs.Lookup(language)
	if !ok {
		return "", &InferenceError{Language: language}
	}
	return r.stem() + ext, nil
}

func describeTargets(groups []*Group) []string {
	targets := make([]string, len(groups))
	for i, g := range groups {
		if g.Target != "" {
			targets[i] = g.Target
			continue
		}
		if name := fileOverride(g); name != "" {
			targets[i] = name
			continue
		}
		targets[i] = "(unnamed group)"
	}
	return targets
}
