package sanitizer

import (
	"reflect"
	"testing"
)

func TestScanPrivateOrigins(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "ten dot range",
			text:     `"url":"http://10.0.0.5/webhook"`,
			expected: []string{"http://10.0.0.5"},
		},
		{
			name:     "one-nine-two range with port and path",
			text:     `"url":"http://192.168.1.100:5000/api/status"`,
			expected: []string{"http://192.168.1.100:5000"},
		},
		{
			name:     "one-seven-two range lower bound",
			text:     `"url":"https://172.16.0.1:8443/admin"`,
			expected: []string{"https://172.16.0.1:8443"},
		},
		{
			name: "one-seven-two outside private block",
			text: `"url":"http://172.15.0.1/x" "url2":"http://172.32.0.1/y"`,
		},
		{
			name: "public address ignored",
			text: `"url":"https://93.184.216.34/page"`,
		},
		{
			name: "hostname ignored",
			text: `"url":"https://api.example.com/v1"`,
		},
		{
			name: "placeholder host excluded",
			text: `"url":"http://${N8N_HOST}:5678/webhook/abc"`,
		},
		{
			name: "placeholder port excluded",
			text: `"url":"http://192.168.1.5:${PORT}/x"`,
		},
		{
			name:     "placeholder in path does not hide a raw private host",
			text:     `"url":"http://10.0.0.5/hooks/${WEBHOOK_PATH}"`,
			expected: []string{"http://10.0.0.5"},
		},
		{
			name:     "placeholder in query does not hide a raw private host",
			text:     `"url":"http://192.168.7.9:8080/api?token=${QUERY_TOKEN}"`,
			expected: []string{"http://192.168.7.9:8080"},
		},
		{
			name:     "duplicates collapse to one origin",
			text:     `"a":"http://192.168.1.100:5000/one" "b":"http://192.168.1.100:5000/two"`,
			expected: []string{"http://192.168.1.100:5000"},
		},
		{
			name:     "distinct origins kept in first-seen order",
			text:     `"a":"http://10.1.2.3/one" "b":"http://192.168.0.9:8080/two"`,
			expected: []string{"http://10.1.2.3", "http://192.168.0.9:8080"},
		},
		{
			name: "bare ip without scheme ignored",
			text: `"host":"192.168.1.100"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanPrivateOrigins(tt.text)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ScanPrivateOrigins() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
