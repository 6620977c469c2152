package canvas

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
)

var assignmentTemplate = template.Must(template.New("assignment").Parse(
	`<p>{{.Name}}</p><p><a href="{{.URL}}" target="_blank">Open the activity</a></p>`,
))

var submissionTemplate = template.Must(template.New("submission").Parse(
	`<ul>{{range .Fields}}<li><strong>{{.Key}}</strong>: {{.Value}}</li>{{end}}</ul>` +
		`<p><a href="{{.URL}}" target="_blank">View the result</a></p>`,
))

type resultField struct {
	Key   string
	Value string
}

func renderAssignment(game Game, link string) (string, error) {
	var out bytes.Buffer
	err := assignmentTemplate.Execute(&out, struct {
		Name string
		URL  string
	}{Name: game.Name, URL: link})
	if err != nil {
		return "", fmt.Errorf("providers/canvas: render assignment description: %w", err)
	}
	return out.String(), nil
}

// renderSubmission lists result fields in key order so bodies are stable.
func renderSubmission(result map[string]any, link string) (string, error) {
	keys := make([]string, 0, len(result))
	for key := range result {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fields := make([]resultField, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, resultField{Key: key, Value: fmt.Sprint(result[key])})
	}
	var out bytes.Buffer
	err := submissionTemplate.Execute(&out, struct {
		Fields []resultField
		URL    string
	}{Fields: fields, URL: link})
	if err != nil {
		return "", fmt.Errorf("providers/canvas: render submission body: %w", err)
	}
	return out.String(), nil
}
