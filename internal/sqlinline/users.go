package sqlinline

// QSelectUserSlotsByID loads a user's slot counters by id.
const QSelectUserSlotsByID = `--sql a0eea5db-2e43-415d-88b6-3324817d777a
SELECT id, email, slots_total, slots_used
FROM users
WHERE id = $1`

// QSelectUserSlotsByEmail loads a user's slot counters by email.
const QSelectUserSlotsByEmail = `--sql e10038eb-87c3-4a9d-8edc-1a689ca61ec6
SELECT id, email, slots_total, slots_used
FROM users
WHERE lower(email) = lower($1)`

// QGrantUserSlots adjusts the slot allowance. The GREATEST guard keeps the
// total from dropping below current usage when granting a negative delta.
const QGrantUserSlots = `--sql 1401af6a-79d8-4757-a084-2d2ea2ca438c
UPDATE users
SET slots_total = GREATEST(slots_total + $2, slots_used),
    updated_at  = now()
WHERE id = $1
RETURNING id, email, slots_total, slots_used`
