// Package mnemonic provides goroawase memory aids for blocks of π digits.
package mnemonic

// BlockSize is the number of digits covered by one phrase.
const BlockSize = 10

// beyondTable is shown once the table runs out.
const beyondTable = "ここからは自分との戦いです！"

// phrases covers digits 0-199, one entry per block of ten.
var phrases = []string{
	"産医師、異国に向こう (さんいしいこくにむこう)",
	"薬なく、産婦宮代に (やくな(く)さんぷみやしろに)",
	"虫散々、闇に鳴く (むしさんざんやミニなく)",
	"御礼には、早行かない (ごれいにははよ(う)いかない)",
	"無草、菊見に婿入れ (むくさ、きくみにむこいれ)",
	"小屋におくなよ、急死 (こやにおくなよきゅうし)",
	"号泣兄さん、女は色よ (ごうきゅうにいさん、おなはいろよ)",
	"オムツは無二、親クック (おむつはむに、おやくっく)",
	"ハムには大さじバニー粉 (はむにはおおさじばにーこ)",
	"三好いいな、オーム鳴く (みよいいなおーむなく)",
	"ハニー医師、晴れハロ恋 (はにーいし、はれはろこい)",
	"ミニハニー見ろ、ムム死な (みにはにーみろ、むむしな)",
	"奥さん早よ、シロ救護 (おくさんはよ、しろきゅうご)",
	"GO！GO！ハニー、兄さんいいな (ごーごーはにー、にいさんいいな)",
	"ゴミコク、塩ハイ庭 (ごみこく、しおはいにわ)",
	"司祭いいな、仕事オーツ (しさいいいな、しごとおーつ)",
	"箸入れ船入れ、一休さん (はしいれふないれ、いっきゅうさん)",
	"箱にいい男、午後ック (はこにいいおとこ、ごごっく)",
	"虫四郎、夫婦串焼く (むししろう、ふうふくしやく)",
	"腰組王様、俳句色 (こしぐみおうさま、はいくいろ)",
}

// Covered is the number of digits with a phrase.
func Covered() int {
	return len(phrases) * BlockSize
}

// Hint returns the phrase for the block containing pos.
func Hint(pos int) string {
	if pos < 0 {
		return ""
	}
	block := pos / BlockSize
	if block < len(phrases) {
		return phrases[block]
	}
	return beyondTable
}

// BlockStart returns the first position of the block containing pos.
func BlockStart(pos int) int {
	if pos < 0 {
		return 0
	}
	return pos - pos%BlockSize
}
