package domain

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseURLList(t *testing.T) {
	input := `# morning batch
https://youtu.be/AAAAAAAAAAA

  not a url  
https://youtu.be/AAAAAAAAAAA
	# indented comment
https://youtu.be/BBBBBBBBBBB`

	got, err := ParseURLList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseURLList() error = %v", err)
	}

	want := []string{
		"https://youtu.be/AAAAAAAAAAA",
		"not a url",
		"https://youtu.be/AAAAAAAAAAA",
		"https://youtu.be/BBBBBBBBBBB",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseURLList() = %v, want %v", got, want)
	}
}

func TestParseURLList_Empty(t *testing.T) {
	got, err := ParseURLList(strings.NewReader("\n# only comments\n\n"))
	if err != nil {
		t.Fatalf("ParseURLList() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ParseURLList() = %v, want empty", got)
	}
}
