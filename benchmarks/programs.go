package benchmarks

import (
	"fmt"

	"github.com/sarchlab/armsim/emu"
)

// GetMicrobenchmarks returns the standard set of benchmark programs.
// Each one exercises a different mix of instruction classes.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		fibonacci(),
		factorialLoop(),
		factorialRecursive(),
		powerOfTwo(),
		gcd(),
		memorySum(),
		bubbleSort(),
		rot13(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: a loop, a
// call-heavy program and a memory-heavy program.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		factorialLoop(),
		factorialRecursive(),
		bubbleSort(),
	}
}

func expectReg(name string, want uint32) func(m *emu.Machine) error {
	return func(m *emu.Machine) error {
		if got := m.RegFile().Read(name); got != want {
			return fmt.Errorf("%s = %d, want %d", name, got, want)
		}
		return nil
	}
}

func expectWords(addr int64, want []uint32) func(m *emu.Machine) error {
	return func(m *emu.Machine) error {
		for i, w := range want {
			got, err := m.Memory().Read32(addr + int64(4*i))
			if err != nil {
				return err
			}
			if got != w {
				return fmt.Errorf("word %d = %d, want %d", i, got, w)
			}
		}
		return nil
	}
}

func storeWords(addr int64, words []uint32) func(m *emu.Machine) error {
	return func(m *emu.Machine) error {
		for i, w := range words {
			if err := m.Memory().Write32(addr+int64(4*i), w); err != nil {
				return err
			}
		}
		return nil
	}
}

// 1. Arithmetic Sequential - independent ALU operations, no branches
func arithmeticSequential() Benchmark {
	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "20 independent ADD operations - ALU only",
		Source: `
	add r0, r0, #1
	add r1, r1, #1
	add r2, r2, #1
	add r3, r3, #1
	add r4, r4, #1
	add r0, r0, #1
	add r1, r1, #1
	add r2, r2, #1
	add r3, r3, #1
	add r4, r4, #1
	add r0, r0, #1
	add r1, r1, #1
	add r2, r2, #1
	add r3, r3, #1
	add r4, r4, #1
	add r0, r0, #1
	add r1, r1, #1
	add r2, r2, #1
	add r3, r3, #1
	add r4, r4, #1
`,
		Verify: expectReg("r4", 4),
	}
}

// 2. Fibonacci - short dependent loop
func fibonacci() Benchmark {
	return Benchmark{
		Name:        "fibonacci",
		Description: "fib(20) with a counted loop - dependent ALU chain",
		Source: `
	mov r0, #0
	mov r1, #1
	mov r2, #20
loop:
	add r3, r0, r1
	mov r0, r1
	mov r1, r3
	subs r2, r2, #1
	bne loop
`,
		Verify: expectReg("r0", 6765),
	}
}

// 3. Factorial Loop - multiply in a loop
func factorialLoop() Benchmark {
	return Benchmark{
		Name:        "factorial_loop",
		Description: "5! with a compare-and-branch loop - multiply latency",
		Source: `
	mov r0, #5
	mov r1, #1
loop:
	cmp r0, #1
	ble done
	mul r1, r1, r0
	sub r0, r0, #1
	b loop
done:
`,
		Verify: expectReg("r1", 120),
	}
}

// 4. Factorial Recursive - call/return with a stack frame
func factorialRecursive() Benchmark {
	return Benchmark{
		Name:        "factorial_recursive",
		Description: "5! by recursion - bl/bx and stack traffic",
		Source: `
	mov r0, #5
	bl fact
	b end
fact:
	cmp r0, #1
	movle r0, #1
	bxle lr
	str lr, [sp, #-4]!   @ push
	str r0, [sp, #-4]!
	sub r0, r0, #1
	bl fact
	ldr r1, [sp], #4     @ pop
	ldr lr, [sp], #4
	mul r0, r0, r1
	bx lr
end:
`,
		Verify: expectReg("r0", 120),
	}
}

// 5. Power of Two - shifts in a loop
func powerOfTwo() Benchmark {
	return Benchmark{
		Name:        "power_of_two",
		Description: "2^10 by repeated shifting",
		Source: `
	mov r0, #1
	mov r1, #10
loop:
	cmp r1, #0
	beq done
	lsl r0, r0, #1
	sub r1, r1, #1
	b loop
done:
`,
		Verify: expectReg("r0", 1024),
	}
}

// 6. GCD - conditional execution instead of branches
func gcd() Benchmark {
	return Benchmark{
		Name:        "gcd",
		Description: "gcd(1071, 462) by subtraction - conditional ALU ops",
		Source: `
	mov r0, #1071
	mov r1, #462
loop:
	cmp r0, r1
	beq done
	subgt r0, r0, r1
	sublt r1, r1, r0
	b loop
done:
`,
		Verify: expectReg("r0", 21),
	}
}

// 7. Memory Sum - sequential stores then loads with post-indexing
func memorySum() Benchmark {
	return Benchmark{
		Name:        "memory_sum",
		Description: "store 1..16 then sum them - post-indexed transfers",
		Source: `
	mov r0, #256
	mov r1, #1
fill:
	str r1, [r0], #4
	add r1, r1, #1
	cmp r1, #16
	ble fill
	mov r0, #256
	mov r1, #16
	mov r2, #0
sum:
	ldr r3, [r0], #4
	add r2, r2, r3
	subs r1, r1, #1
	bne sum
`,
		Verify: expectReg("r2", 136),
	}
}

// 8. Bubble Sort - nested loops with conditional stores
func bubbleSort() Benchmark {
	return Benchmark{
		Name:        "bubble_sort",
		Description: "sort 8 words in place - loads, conditional stores",
		Setup:       storeWords(256, []uint32{5, 3, 8, 1, 7, 2, 6, 4}),
		Source: `
	mov r4, #8
outer:
	subs r4, r4, #1
	beq done
	mov r0, #256
	mov r5, r4
inner:
	ldr r1, [r0]
	ldr r2, [r0, #4]
	cmp r1, r2
	strgt r2, [r0]
	strgt r1, [r0, #4]
	add r0, r0, #4
	subs r5, r5, #1
	bne inner
	b outer
done:
`,
		Verify: expectWords(256, []uint32{1, 2, 3, 4, 5, 6, 7, 8}),
	}
}

// 9. ROT13 - byte transfers over a string
func rot13() Benchmark {
	const text = "lorem ipsum"

	return Benchmark{
		Name:        "rot13",
		Description: "rot13 of a zero-terminated string - byte loads and stores",
		Setup: func(m *emu.Machine) error {
			return m.Memory().LoadBytes(256, append([]byte(text), 0))
		},
		Source: `
	mov r0, #256
loop:
	ldrb r3, [r0], #1
	cmp r3, #0
	beq done
	cmp r3, #97          @ 'a'
	blt loop
	cmp r3, #122         @ 'z'
	bgt loop
	sub r3, r3, #84      @ 'a' - 13
	cmp r3, #26
	subge r3, r3, #26
	add r3, r3, #97
	strb r3, [r0, #-1]
	b loop
done:
`,
		Verify: func(m *emu.Machine) error {
			want := "yberz vcfhz"
			for i := 0; i < len(want); i++ {
				b, err := m.Memory().Read8(int64(256 + i))
				if err != nil {
					return err
				}
				if b != want[i] {
					return fmt.Errorf("byte %d = %q, want %q", i, b, want[i])
				}
			}
			return nil
		},
	}
}
