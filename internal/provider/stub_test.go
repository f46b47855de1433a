package provider

import "context"

type stubResources struct {
	name    string
	kinds   []Kind
	listed  []Kind
	deleted []Resource
}

func (s *stubResources) Kinds() []Kind { return s.kinds }

func (s *stubResources) ListResources(_ context.Context, kind Kind) ([]Resource, error) {
	s.listed = append(s.listed, kind)
	return []Resource{{Kind: kind, ID: s.name, Label: s.name + "-" + string(kind)}}, nil
}

func (s *stubResources) DeleteResource(_ context.Context, r Resource) error {
	s.deleted = append(s.deleted, r)
	return nil
}
