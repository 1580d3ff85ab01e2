package help

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomasrohde/rlisp/pkg/stdlib"
)

func TestQUICKREFNonEmpty(t *testing.T) {
	if len(QUICKREF) == 0 {
		t.Fatal("QUICKREF is empty")
	}
}

func TestQUICKREFListsTopics(t *testing.T) {
	for _, topic := range TopicList {
		if !strings.Contains(QUICKREF, topic) {
			t.Errorf("QUICKREF does not mention topic %q", topic)
		}
	}
}

func TestTopicListMatchesTopics(t *testing.T) {
	for _, name := range TopicList {
		if _, ok := Topics[name]; !ok {
			t.Errorf("TopicList entry %q not in Topics map", name)
		}
	}
	if len(Topics) != len(TopicList) {
		t.Errorf("expected %d topics, got %d", len(TopicList), len(Topics))
	}
}

func TestTopicsNonEmpty(t *testing.T) {
	for name, content := range Topics {
		if len(content) == 0 {
			t.Errorf("topic %q is empty", name)
		}
	}
}

func TestStdlibTopicCoversRegistry(t *testing.T) {
	for _, name := range stdlib.Defaults().Names() {
		assert.Contains(t, Topics["stdlib"], name+"(", "stdlib topic is missing %s", name)
	}
}

func TestLookup(t *testing.T) {
	text, ok := Lookup(" Flow ")
	assert.True(t, ok)
	assert.Equal(t, Topics["flow"], text)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
