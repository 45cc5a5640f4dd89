package movegen

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceFromChar = map[rune]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop,
	'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop,
	'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

var charFromPiece = map[Piece]rune{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B',
	WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b',
	BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, _ := ParseFEN(StartFEN)
	return p
}

// ParseFEN builds a Position from a FEN string. The halfmove clock and
// fullmove number fields are optional, defaulting to 0 and 1.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen %q: need at least 4 fields, got %d", fen, len(fields))
	}

	p := &Position{ep: NoSquare, moveNo: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen %q: placement needs 8 ranks, got %d", fen, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, ok := pieceFromChar[ch]
			if !ok {
				return nil, fmt.Errorf("fen %q: bad piece char %q", fen, ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("fen %q: rank %d overflows", fen, rank+1)
			}
			p.put(pc, SquareOf(file, rank))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("fen %q: rank %d has %d files", fen, rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		p.stm = White
	case "b":
		p.stm = Black
		p.key ^= zob.sideBlack
	default:
		return nil, fmt.Errorf("fen %q: bad side %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.castle |= WhiteKingside
			case 'Q':
				p.castle |= WhiteQueenside
			case 'k':
				p.castle |= BlackKingside
			case 'q':
				p.castle |= BlackQueenside
			default:
				return nil, fmt.Errorf("fen %q: bad castling char %q", fen, ch)
			}
		}
	}
	p.key ^= zob.castle[p.castle]

	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen %q: %v", fen, err)
		}
		p.ep = sq
		p.key ^= zob.epFile[sq.File()]
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("fen %q: bad halfmove clock %q", fen, fields[4])
		}
		p.rule50 = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("fen %q: bad fullmove number %q", fen, fields[5])
		}
		p.moveNo = n
	}

	p.pawnKey = p.ComputePawnKey()
	p.minorKey = p.ComputeMinorKey()
	return p, nil
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	return SquareOf(int(s[0]-'a'), int(s[1]-'1')), nil
}

// FEN serializes the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.squares[SquareOf(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteRune(charFromPiece[pc])
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.stm == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.castle == 0 {
		sb.WriteByte('-')
	} else {
		if p.castle&WhiteKingside != 0 {
			sb.WriteByte('K')
		}
		if p.castle&WhiteQueenside != 0 {
			sb.WriteByte('Q')
		}
		if p.castle&BlackKingside != 0 {
			sb.WriteByte('k')
		}
		if p.castle&BlackQueenside != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.ep.String())
	sb.WriteString(fmt.Sprintf(" %d %d", p.rule50, p.moveNo))
	return sb.String()
}

// FindMove matches a move in coordinate notation ("e2e4", "e7e8q")
// against the legal moves of the position. Returns NoMove when the
// string does not name a legal move.
func (p *Position) FindMove(s string) Move {
	for _, m := range p.LegalMoves() {
		if m.String() == s {
			return m
		}
	}
	return NoMove
}
