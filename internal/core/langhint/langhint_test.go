package langhint

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", Unknown},
		{"too short", "Fed cut", Unknown},
		{"english wire", "The Federal Reserve signaled a rate cut after dovish remarks from the chair.", "en"},
		{"japanese", "日銀は金利を据え置き、円は対ドルで下落した。かなカナかなカナかなカナ", "ja"},
		{"korean", "연방준비제도는 금리 인하를 시사했다 연방준비제도는 금리 인하를 시사했다", "ko"},
		{"greek", "Η κεντρική τράπεζα διατήρησε τα επιτόκια αμετάβλητα σήμερα", "el"},
		{"cyrillic stays unknown", "Центральный банк сохранил процентные ставки без изменений сегодня", Unknown},
		{"han stays unknown", "中央银行今天维持利率不变市场反应平静分析师预计年内降息", Unknown},
		{"digits only", "1234567890 1234567890 1234567890", Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.in); got != tc.want {
				t.Fatalf("Detect(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
