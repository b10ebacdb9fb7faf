package services

import "testing"

func TestMergeLyrics(t *testing.T) {
	tests := []struct {
		name                 string
		original, translated string
		want                 string
	}{
		{
			name:       "empty original",
			original:   "",
			translated: "[00:01.00]hello",
			want:       "",
		},
		{
			name:       "no translation",
			original:   "[00:01.00]こんにちは\n",
			translated: "",
			want:       "[00:01.00]こんにちは\n",
		},
		{
			name:       "pairs lines by timestamp",
			original:   "[00:01.00]一\n[00:02.50]二\n[00:04.000]三",
			translated: "[00:01.00]one\n[00:04.000]three",
			want:       "[00:01.00]一\n[00:01.00]one\n[00:02.50]二\n[00:04.000]三\n[00:04.000]three",
		},
		{
			name:       "untimed lines kept and blank lines dropped",
			original:   "作词 : someone\n\n[00:01.00]一",
			translated: "[00:01.00]one",
			want:       "作词 : someone\n[00:01.00]一\n[00:01.00]one",
		},
		{
			name:       "translation slashes trimmed",
			original:   "[00:01.00]一",
			translated: "[00:01.00] //one// ",
			want:       "[00:01.00]一\n[00:01.00]one",
		},
		{
			name:       "empty original text keeps translation",
			original:   "[00:01.00]",
			translated: "[00:01.00]instrumental",
			want:       "[00:01.00]instrumental",
		},
		{
			name:       "blank translation ignored",
			original:   "[00:01.00]一",
			translated: "[00:01.00]//",
			want:       "[00:01.00]一",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeLyrics(tt.original, tt.translated); got != tt.want {
				t.Errorf("MergeLyrics() = %q, want %q", got, tt.want)
			}
		})
	}
}
