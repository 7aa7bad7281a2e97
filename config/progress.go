package config

import (
	"io/ioutil"
	"os"
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/stargazer/logger"
	"gopkg.in/yaml.v3"
)

// FileProgressStore keeps the segment each song resumes from in a YAML file.
type FileProgressStore struct {
	path string

	lock     sync.Mutex
	segments map[string]int
}

// NewFileProgressStore opens the store at path. A missing file is an empty store.
func NewFileProgressStore(path string) (*FileProgressStore, error) {
	s := &FileProgressStore{path: path, segments: map[string]int{}}

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	if err := yaml.Unmarshal(data, &s.segments); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	if s.segments == nil {
		s.segments = map[string]int{}
	}
	return s, nil
}

func (s *FileProgressStore) Load(title string) (int, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	segment, ok := s.segments[title]
	return segment, ok
}

// Save records segment for title and rewrites the file.
func (s *FileProgressStore) Save(title string, segment int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.segments[title] = segment

	data, err := yaml.Marshal(s.segments)
	if err != nil {
		return errors.WithStackTrace(err)
	}
	if err := ioutil.WriteFile(s.path, data, 0644); err != nil {
		return errors.WithStackTrace(err)
	}

	logger.GetProjectLogger().Debugf("saved progress for %q: segment %d", title, segment)
	return nil
}
